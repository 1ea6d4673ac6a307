package endpoint

import (
	"robinhood/internal/model"
	"robinhood/internal/request"
)

type idListArgs struct {
	IDs []string `validate:"required,min=1,dive,required,urlsafe"`
}

// GetRatings builds GET /midlands/ratings/?ids=a,b. Instrument ids are sent as
// a single comma-separated value.
func GetRatings(api API, ids ...string) (*request.Descriptor, error) {
	if err := checkArgs(idListArgs{IDs: ids}); err != nil {
		return nil, err
	}

	d := request.New(api.url("midlands", "ratings"))
	d.AddQueryParameter("ids", request.JoinList(ids...))
	d.SetVerb(request.GET)
	d.SetShape(model.ShapeRatingList)
	return finalize(d)
}
