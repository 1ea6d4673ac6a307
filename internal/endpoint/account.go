package endpoint

import (
	"robinhood/internal/model"
	"robinhood/internal/request"
)

func GetAccounts(api API) (*request.Descriptor, error) {
	d := request.New(api.url("accounts"))
	if err := api.authenticated(d); err != nil {
		return nil, err
	}
	d.SetShape(model.ShapeAccountList)
	return finalize(d)
}

// GetPositions lists positions; nonzero filters out closed ones.
func GetPositions(api API, nonzero bool) (*request.Descriptor, error) {
	d := request.New(api.url("positions"))
	if err := api.authenticated(d); err != nil {
		return nil, err
	}
	if nonzero {
		d.AddQueryParameter("nonzero", "true")
	}
	d.SetShape(model.ShapePositionList)
	return finalize(d)
}

func GetUser(api API) (*request.Descriptor, error) {
	d := request.New(api.url("user"))
	if err := api.authenticated(d); err != nil {
		return nil, err
	}
	d.SetShape(model.ShapeUser)
	return finalize(d)
}
