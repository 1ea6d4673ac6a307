package endpoint

import (
	"strings"

	"robinhood/internal/model"
	"robinhood/internal/request"
)

func GetInstrumentBySymbol(api API, symbol string) (*request.Descriptor, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := checkArgs(symbolArgs{Symbol: symbol}); err != nil {
		return nil, err
	}

	d := request.New(api.url("instruments"))
	d.AddQueryParameter("symbol", symbol)
	d.SetShape(model.ShapeInstrumentList)
	return finalize(d)
}

func GetQuote(api API, symbol string) (*request.Descriptor, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := checkArgs(symbolArgs{Symbol: symbol}); err != nil {
		return nil, err
	}

	d := request.New(api.url("quotes", symbol))
	d.SetShape(model.ShapeQuote)
	return finalize(d)
}

func GetQuotes(api API, symbols ...string) (*request.Descriptor, error) {
	symbols = normalizeSymbols(symbols)
	if err := checkArgs(symbolListArgs{Symbols: symbols}); err != nil {
		return nil, err
	}

	d := request.New(api.url("quotes"))
	d.AddQueryParameter("symbols", request.JoinList(symbols...))
	d.SetShape(model.ShapeQuoteList)
	return finalize(d)
}
