package endpoint

import (
	"strings"

	"robinhood/internal/model"
	"robinhood/internal/request"
)

// GetTickerFundamental builds GET /fundamentals/<TICKER>/. It needs a logged-in
// session.
func GetTickerFundamental(api API, ticker string) (*request.Descriptor, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := checkArgs(symbolArgs{Symbol: ticker}); err != nil {
		return nil, err
	}

	d := request.New(api.url("fundamentals", ticker))
	if err := api.authenticated(d); err != nil {
		return nil, err
	}
	d.SetVerb(request.GET)
	d.SetShape(model.ShapeTickerFundamental)
	return finalize(d)
}

// GetFundamentals builds GET /fundamentals/?symbols=A,B for several tickers at once.
func GetFundamentals(api API, tickers ...string) (*request.Descriptor, error) {
	tickers = normalizeSymbols(tickers)
	if err := checkArgs(symbolListArgs{Symbols: tickers}); err != nil {
		return nil, err
	}

	d := request.New(api.url("fundamentals"))
	if err := api.authenticated(d); err != nil {
		return nil, err
	}
	d.AddQueryParameter("symbols", request.JoinList(tickers...))
	d.SetShape(model.ShapeFundamentalList)
	return finalize(d)
}
