package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Page is the envelope Robinhood wraps list responses in.
type Page[T any] struct {
	Previous *string `json:"previous,omitempty"`
	Next     *string `json:"next,omitempty"`
	Results  []T     `json:"results"`
}

type TickerFundamental struct {
	Symbol              string              `json:"symbol,omitempty"`
	Open                decimal.NullDecimal `json:"open"`
	High                decimal.NullDecimal `json:"high"`
	Low                 decimal.NullDecimal `json:"low"`
	Volume              decimal.NullDecimal `json:"volume"`
	AverageVolume       decimal.NullDecimal `json:"average_volume"`
	AverageVolume2Weeks decimal.NullDecimal `json:"average_volume_2_weeks"`
	High52Weeks         decimal.NullDecimal `json:"high_52_weeks"`
	Low52Weeks          decimal.NullDecimal `json:"low_52_weeks"`
	DividendYield       decimal.NullDecimal `json:"dividend_yield"`
	MarketCap           decimal.NullDecimal `json:"market_cap"`
	PBRatio             decimal.NullDecimal `json:"pb_ratio"`
	PERatio             decimal.NullDecimal `json:"pe_ratio"`
	SharesOutstanding   decimal.NullDecimal `json:"shares_outstanding"`
	Float               decimal.NullDecimal `json:"float"`
	Description         string              `json:"description"`
	Instrument          string              `json:"instrument"`
	CEO                 string              `json:"ceo"`
	HeadquartersCity    string              `json:"headquarters_city"`
	HeadquartersState   string              `json:"headquarters_state"`
	Sector              string              `json:"sector"`
	Industry            string              `json:"industry"`
	NumEmployees        *int                `json:"num_employees"`
	YearFounded         *int                `json:"year_founded"`
}

type RatingSummary struct {
	NumBuyRatings  int `json:"num_buy_ratings"`
	NumHoldRatings int `json:"num_hold_ratings"`
	NumSellRatings int `json:"num_sell_ratings"`
}

type Rating struct {
	PublishedAt time.Time `json:"published_at"`
	Type        string    `json:"type"`
	Text        string    `json:"text"`
}

// RatingElement holds analyst ratings for one instrument.
type RatingElement struct {
	InstrumentID       string         `json:"instrument_id"`
	Summary            *RatingSummary `json:"summary"`
	Ratings            []Rating       `json:"ratings"`
	RatingsPublishedAt *time.Time     `json:"ratings_published_at"`
}

type Instrument struct {
	ID                 string              `json:"id"`
	URL                string              `json:"url"`
	Symbol             string              `json:"symbol"`
	Name               string              `json:"name"`
	SimpleName         string              `json:"simple_name"`
	Type               string              `json:"type"`
	State              string              `json:"state"`
	Country            string              `json:"country"`
	Tradeable          bool                `json:"tradeable"`
	Tradability        string              `json:"tradability"`
	ListDate           string              `json:"list_date"`
	MinTickSize        decimal.NullDecimal `json:"min_tick_size"`
	DayTradeRatio      decimal.NullDecimal `json:"day_trade_ratio"`
	MaintenanceRatio   decimal.NullDecimal `json:"maintenance_ratio"`
	MarginInitialRatio decimal.NullDecimal `json:"margin_initial_ratio"`
	Quote              string              `json:"quote"`
	Fundamentals       string              `json:"fundamentals"`
	Market             string              `json:"market"`
}

type Quote struct {
	Symbol                      string              `json:"symbol"`
	AskPrice                    decimal.NullDecimal `json:"ask_price"`
	AskSize                     int                 `json:"ask_size"`
	BidPrice                    decimal.NullDecimal `json:"bid_price"`
	BidSize                     int                 `json:"bid_size"`
	LastTradePrice              decimal.NullDecimal `json:"last_trade_price"`
	LastExtendedHoursTradePrice decimal.NullDecimal `json:"last_extended_hours_trade_price"`
	PreviousClose               decimal.NullDecimal `json:"previous_close"`
	AdjustedPreviousClose       decimal.NullDecimal `json:"adjusted_previous_close"`
	PreviousCloseDate           string              `json:"previous_close_date"`
	TradingHalted               bool                `json:"trading_halted"`
	HasTraded                   bool                `json:"has_traded"`
	UpdatedAt                   *time.Time          `json:"updated_at"`
	Instrument                  string              `json:"instrument"`
}

type Account struct {
	URL                        string              `json:"url"`
	AccountNumber              string              `json:"account_number"`
	Type                       string              `json:"type"`
	Cash                       decimal.NullDecimal `json:"cash"`
	BuyingPower                decimal.NullDecimal `json:"buying_power"`
	CashAvailableForWithdrawal decimal.NullDecimal `json:"cash_available_for_withdrawal"`
	Portfolio                  string              `json:"portfolio"`
	Positions                  string              `json:"positions"`
	Deactivated                bool                `json:"deactivated"`
	CreatedAt                  *time.Time          `json:"created_at"`
}

type Position struct {
	URL                string              `json:"url"`
	Instrument         string              `json:"instrument"`
	Account            string              `json:"account"`
	Quantity           decimal.NullDecimal `json:"quantity"`
	AverageBuyPrice    decimal.NullDecimal `json:"average_buy_price"`
	SharesHeldForSells decimal.NullDecimal `json:"shares_held_for_sells"`
	IntradayQuantity   decimal.NullDecimal `json:"intraday_quantity"`
	CreatedAt          *time.Time          `json:"created_at"`
	UpdatedAt          *time.Time          `json:"updated_at"`
}

type User struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	CreatedAt *time.Time `json:"created_at"`
}

// Token is the oauth2 response returned by a login.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	MFARequired  bool   `json:"mfa_required"`
	MFAType      string `json:"mfa_type"`
}
