package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"robinhood/internal/endpoint"
	"robinhood/internal/model"
	"robinhood/internal/request"
	"robinhood/internal/session"
	"robinhood/internal/transport"
)

var (
	ErrMFARequired = errors.New("mfa code required")
	ErrNotFound    = errors.New("not found")
)

const defaultParallel = 4

type Options struct {
	BaseURL    string
	Session    *session.Store
	HTTPClient transport.Doer
	CallLog    *transport.CallLog
}

type Client struct {
	api       endpoint.API
	session   *session.Store
	transport *transport.Transport
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = endpoint.DefaultBaseURL
	}
	if opts.Session == nil {
		opts.Session = session.NewStore()
	}
	var topts []transport.Option
	if opts.HTTPClient != nil {
		topts = append(topts, transport.WithHTTPClient(opts.HTTPClient))
	}
	if opts.CallLog != nil {
		topts = append(topts, transport.WithCallLog(opts.CallLog))
	}
	return &Client{
		api:       endpoint.API{BaseURL: opts.BaseURL, Tokens: opts.Session},
		session:   opts.Session,
		transport: transport.New(topts...),
	}
}

func (c *Client) Session() *session.Store {
	return c.session
}

// fetch builds a descriptor, sends it and decodes the body by the
// descriptor's declared shape.
func fetch[T any](ctx context.Context, c *Client, d *request.Descriptor, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Do(ctx, d)
	if err != nil {
		return nil, err
	}
	return model.DecodeAs[T](d.Shape(), resp.Body)
}

func (c *Client) Login(ctx context.Context, username, password, mfaCode string) (*model.Token, error) {
	d, err := endpoint.Login(c.api, endpoint.Credentials{
		Username:    username,
		Password:    password,
		MFACode:     mfaCode,
		DeviceToken: c.session.DeviceToken(),
	})
	token, err := fetch[model.Token](ctx, c, d, err)
	if err != nil {
		slog.Error("login failed", "username", username, "error", err)
		return nil, err
	}
	if token.AccessToken == "" {
		if token.MFARequired {
			slog.Info("login needs mfa", "username", username, "mfa_type", token.MFAType)
			return token, ErrMFARequired
		}
		return nil, fmt.Errorf("%w: login returned no access token", model.ErrMalformedResponse)
	}

	c.session.SetToken(token.AccessToken, token.RefreshToken, time.Duration(token.ExpiresIn)*time.Second)
	slog.Info("login success", "username", username, "expires_in", token.ExpiresIn)
	return token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	token, err := c.session.Token()
	if err != nil {
		return err
	}
	d, err := endpoint.Logout(c.api, token)
	if err != nil {
		return err
	}
	if _, err := c.transport.Do(ctx, d); err != nil {
		slog.Error("logout failed", "error", err)
		return err
	}
	c.session.Clear()
	slog.Info("logout success")
	return nil
}

func (c *Client) TickerFundamental(ctx context.Context, ticker string) (*model.TickerFundamental, error) {
	d, err := endpoint.GetTickerFundamental(c.api, ticker)
	fundamental, err := fetch[model.TickerFundamental](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch fundamental failed", "ticker", ticker, "error", err)
		return nil, err
	}
	slog.Info("fundamental fetched", "ticker", ticker, "market_cap", fundamental.MarketCap.Decimal.String())
	return fundamental, nil
}

func (c *Client) Fundamentals(ctx context.Context, tickers ...string) ([]*model.TickerFundamental, error) {
	d, err := endpoint.GetFundamentals(c.api, tickers...)
	page, err := fetch[model.Page[*model.TickerFundamental]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch fundamentals failed", "tickers", tickers, "error", err)
		return nil, err
	}
	slog.Info("fundamentals fetched", "count", len(page.Results))
	return page.Results, nil
}

// FundamentalsEach fetches every ticker with its own request, at most
// parallel at a time. The first failure cancels the rest.
func (c *Client) FundamentalsEach(ctx context.Context, tickers []string, parallel int) (map[string]*model.TickerFundamental, error) {
	if parallel <= 0 {
		parallel = defaultParallel
	}
	results := make([]*model.TickerFundamental, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			fundamental, err := c.TickerFundamental(gctx, ticker)
			if err != nil {
				return fmt.Errorf("%s: %w", ticker, err)
			}
			results[i] = fundamental
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*model.TickerFundamental, len(tickers))
	for i, ticker := range tickers {
		out[ticker] = results[i]
	}
	return out, nil
}

func (c *Client) Ratings(ctx context.Context, ids ...string) ([]model.RatingElement, error) {
	d, err := endpoint.GetRatings(c.api, ids...)
	page, err := fetch[model.Page[model.RatingElement]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch ratings failed", "ids", ids, "error", err)
		return nil, err
	}
	slog.Info("ratings fetched", "count", len(page.Results))
	return page.Results, nil
}

func (c *Client) InstrumentBySymbol(ctx context.Context, symbol string) (*model.Instrument, error) {
	d, err := endpoint.GetInstrumentBySymbol(c.api, symbol)
	page, err := fetch[model.Page[model.Instrument]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch instrument failed", "symbol", symbol, "error", err)
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("instrument %s: %w", symbol, ErrNotFound)
	}
	instrument := page.Results[0]
	slog.Info("instrument fetched", "symbol", instrument.Symbol, "id", instrument.ID)
	return &instrument, nil
}

func (c *Client) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	d, err := endpoint.GetQuote(c.api, symbol)
	quote, err := fetch[model.Quote](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch quote failed", "symbol", symbol, "error", err)
		return nil, err
	}
	slog.Info("quote fetched", "symbol", quote.Symbol, "last", quote.LastTradePrice.Decimal.String())
	return quote, nil
}

func (c *Client) Quotes(ctx context.Context, symbols ...string) ([]*model.Quote, error) {
	d, err := endpoint.GetQuotes(c.api, symbols...)
	page, err := fetch[model.Page[*model.Quote]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch quotes failed", "symbols", symbols, "error", err)
		return nil, err
	}
	slog.Info("quotes fetched", "count", len(page.Results))
	return page.Results, nil
}

func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	d, err := endpoint.GetAccounts(c.api)
	page, err := fetch[model.Page[model.Account]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch accounts failed", "error", err)
		return nil, err
	}
	slog.Info("accounts fetched", "count", len(page.Results))
	return page.Results, nil
}

func (c *Client) Positions(ctx context.Context, nonzero bool) ([]model.Position, error) {
	d, err := endpoint.GetPositions(c.api, nonzero)
	page, err := fetch[model.Page[model.Position]](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch positions failed", "error", err)
		return nil, err
	}
	slog.Info("positions fetched", "count", len(page.Results), "nonzero", nonzero)
	return page.Results, nil
}

func (c *Client) User(ctx context.Context) (*model.User, error) {
	d, err := endpoint.GetUser(c.api)
	user, err := fetch[model.User](ctx, c, d, err)
	if err != nil {
		slog.Error("fetch user failed", "error", err)
		return nil, err
	}
	slog.Info("user fetched", "username", user.Username)
	return user, nil
}
