package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bufbuild/connect-go"
	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/imaging"
	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/publish"
	"droscher.com/BeerLog/pkg/repository"
	"droscher.com/BeerLog/pkg/tasting"
)

const maxRequestBytes = 32 << 20

var ErrInvalidInput = errors.New("bad request")

type Tasting interface {
	AddBeer(ctx context.Context, entry tasting.Entry) (*model.Beer, error)
	List(ctx context.Context, key model.SortKey) ([]model.Beer, error)
	Collection(ctx context.Context) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context) (string, error)
}

type LookupFunc func(query string) ([]model.Suggestion, error)

type BeerServer struct {
	tasting   Tasting
	publisher Publisher
	lookup    LookupFunc
	logger    *zap.Logger
}

func NewBeerServer(tasting Tasting, publisher Publisher, lookup LookupFunc, logger *zap.Logger) *BeerServer {
	return &BeerServer{tasting: tasting, publisher: publisher, lookup: lookup, logger: logger}
}

// Register mounts every procedure on mux.
func (b *BeerServer) Register(mux *http.ServeMux, options ...connect.HandlerOption) {
	options = append([]connect.HandlerOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithReadMaxBytes(maxRequestBytes),
		connect.WithInterceptors(NewRequestIDInterceptor(b.logger)),
	}, options...)

	mux.Handle(AddBeerProcedure, connect.NewUnaryHandler(AddBeerProcedure, b.AddBeer, options...))
	mux.Handle(ListBeersProcedure, connect.NewUnaryHandler(ListBeersProcedure, b.ListBeers, options...))
	mux.Handle(GetStylesProcedure, connect.NewUnaryHandler(GetStylesProcedure, b.GetStyles, options...))
	mux.Handle(PublishProcedure, connect.NewUnaryHandler(PublishProcedure, b.Publish, options...))
	mux.Handle(LookupProcedure, connect.NewUnaryHandler(LookupProcedure, b.Lookup, options...))
}

func (b *BeerServer) AddBeer(ctx context.Context, request *connect.Request[AddBeerRequest]) (*connect.Response[AddBeerResponse], error) {
	entry := tasting.Entry{
		Name:   request.Msg.Name,
		Style:  request.Msg.Style,
		ABV:    request.Msg.ABV,
		Price:  request.Msg.Price,
		Notes:  request.Msg.Notes,
		Scores: request.Msg.Scores,
	}

	if len(request.Msg.Image) > 0 {
		entry.Image = bytes.NewReader(request.Msg.Image)
	}

	beer, err := b.tasting.AddBeer(ctx, entry)
	if err != nil {
		return nil, addBeerError(err)
	}

	response := AddBeerResponse{Beer: *beer, Message: tasting.SuccessMessage(beer)}

	return connect.NewResponse(&response), nil
}

func addBeerError(err error) error {
	message := errors.New(tasting.Describe(err))

	switch {
	case errors.Is(err, tasting.ErrValidation), errors.Is(err, imaging.ErrDecode):
		return connect.NewError(connect.CodeInvalidArgument, message)
	case errors.Is(err, repository.ErrDuplicateIdentifier):
		return connect.NewError(connect.CodeAlreadyExists, message)
	default:
		return connect.NewError(connect.CodeInternal, message)
	}
}

func (b *BeerServer) ListBeers(ctx context.Context, request *connect.Request[ListBeersRequest]) (*connect.Response[ListBeersResponse], error) {
	key := model.SortKey(request.Msg.Sort)
	if key != "" && !model.IsSortKey(key) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, key))
	}

	beers, err := b.tasting.List(ctx, key)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	collection, err := b.tasting.Collection(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if beers == nil {
		beers = []model.Beer{}
	}

	response := ListBeersResponse{Beers: beers, Collection: collection}

	return connect.NewResponse(&response), nil
}

func (b *BeerServer) GetStyles(_ context.Context, _ *connect.Request[GetStylesRequest]) (*connect.Response[GetStylesResponse], error) {
	response := GetStylesResponse{
		Styles:     model.Styles,
		Other:      model.OtherStyle,
		ABVRange:   model.ABVRange,
		ScoreRange: model.ScoreRange,
		PriceRange: model.PriceRange,
	}

	return connect.NewResponse(&response), nil
}

func (b *BeerServer) Publish(ctx context.Context, _ *connect.Request[PublishRequest]) (*connect.Response[PublishResponse], error) {
	report, err := b.publisher.Publish(ctx)
	if err != nil {
		var stepErr *publish.StepError

		if errors.As(err, &stepErr) {
			return nil, connect.NewError(connect.CodeAborted, errors.New(report))
		}

		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&PublishResponse{Report: report}), nil
}

func (b *BeerServer) Lookup(_ context.Context, request *connect.Request[LookupRequest]) (*connect.Response[LookupResponse], error) {
	if request.Msg.Query == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: query is required", ErrInvalidInput))
	}

	suggestions, err := b.lookup(request.Msg.Query)
	if err != nil {
		b.logger.Error("failed beer search", zap.String("query", request.Msg.Query), zap.Error(err))

		if len(suggestions) == 0 {
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
	}

	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}

	return connect.NewResponse(&LookupResponse{Suggestions: suggestions}), nil
}
