package graphql

import (
	"context"
	"errors"
	"strings"

	"futurama-api/internal/domain"
	"futurama-api/internal/repository"
	"futurama-api/internal/service"

	"github.com/graphql-go/graphql"
)

const (
	maxLimit     = 50
	defaultLimit = 50
)

// Catalog read side of one entity.
type Catalog[R any] interface {
	Get(ctx context.Context, id int64) (*R, error)
	List(ctx context.Context, q service.ListQuery) (*repository.Page[R], error)
}

// Catalogs groups the entity readers exposed through the query root.
type Catalogs struct {
	Characters Catalog[service.CharacterResponse]
	Episodes   Catalog[service.EpisodeResponse]
	Seasons    Catalog[service.SeasonResponse]
}

// prop resolves a field from a typed source. List items arrive as values,
// single results as pointers.
func prop[S any](t graphql.Output, get func(*S) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			switch src := p.Source.(type) {
			case *S:
				return get(src), nil
			case S:
				return get(&src), nil
			}
			return nil, nil
		},
	}
}

func enumType[T ~string](name string, values []T) *graphql.Enum {
	cfg := graphql.EnumValueConfigMap{}
	for _, v := range values {
		cfg[strings.ToUpper(string(v))] = &graphql.EnumValueConfig{Value: string(v)}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: name, Values: cfg})
}

var directionEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Direction",
	Values: graphql.EnumValueConfigMap{
		"ASC":  &graphql.EnumValueConfig{Value: string(repository.DirectionAsc)},
		"DESC": &graphql.EnumValueConfig{Value: string(repository.DirectionDesc)},
	},
})

func pageType(name string, item graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"items":  &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(item)))},
			"total":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"limit":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"offset": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

func listArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultLimit},
		"offset":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"orderBy":   &graphql.ArgumentConfig{Type: graphql.String},
		"direction": &graphql.ArgumentConfig{Type: directionEnum},
		"query":     &graphql.ArgumentConfig{Type: graphql.String},
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

// clamp limit into [0, 50] and offset to >= 0 instead of rejecting.
func listQuery(args map[string]any, filters ...string) service.ListQuery {
	q := service.ListQuery{Limit: defaultLimit}
	if v, ok := args["limit"].(int); ok {
		q.Limit = min(max(v, 0), maxLimit)
	}
	if v, ok := args["offset"].(int); ok {
		q.Offset = max(v, 0)
	}
	q.OrderBy, _ = args["orderBy"].(string)
	q.Direction, _ = args["direction"].(string)
	q.Query, _ = args["query"].(string)

	for _, name := range filters {
		if v, ok := args[name].(string); ok && v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[name] = v
		}
	}
	return q
}

func getResolver[R any](c Catalog[R]) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(int)
		item, err := c.Get(p.Context, int64(id))
		if errors.Is(err, service.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return item, nil
	}
}

func listResolver[R any](c Catalog[R], filters ...string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		page, err := c.List(p.Context, listQuery(p.Args, filters...))
		if err != nil {
			return nil, err
		}
		return page, nil
	}
}

var idArgs = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
}

// NewSchema builds the read-only query root over the catalogs.
func NewSchema(c Catalogs) (graphql.Schema, error) {
	genderEnum := enumType("CharacterGender", domain.AllCharacterGenders)
	statusEnum := enumType("CharacterStatus", domain.AllCharacterStatuses)
	speciesEnum := enumType("CharacterSpecies", domain.AllCharacterSpecies)

	character := graphql.NewObject(graphql.ObjectConfig{
		Name: "Character",
		Fields: graphql.Fields{
			"id":        prop(graphql.NewNonNull(graphql.Int), func(s *service.CharacterResponse) any { return s.ID }),
			"uuid":      prop(graphql.NewNonNull(graphql.String), func(s *service.CharacterResponse) any { return s.UUID.String() }),
			"createdAt": prop(graphql.NewNonNull(graphql.DateTime), func(s *service.CharacterResponse) any { return s.CreatedAt }),
			"name":      prop(graphql.NewNonNull(graphql.String), func(s *service.CharacterResponse) any { return s.Name }),
			"status":    prop(graphql.NewNonNull(statusEnum), func(s *service.CharacterResponse) any { return s.Status }),
			"gender":    prop(graphql.NewNonNull(genderEnum), func(s *service.CharacterResponse) any { return s.Gender }),
			"species":   prop(graphql.NewNonNull(speciesEnum), func(s *service.CharacterResponse) any { return s.Species }),
			"image":     prop(graphql.String, func(s *service.CharacterResponse) any { return s.Image }),
		},
	})

	seasonRef := graphql.NewObject(graphql.ObjectConfig{
		Name: "SeasonRef",
		Fields: graphql.Fields{
			"id":   prop(graphql.NewNonNull(graphql.Int), func(s *service.SeasonRef) any { return s.ID }),
			"uuid": prop(graphql.NewNonNull(graphql.String), func(s *service.SeasonRef) any { return s.UUID.String() }),
		},
	})

	episode := graphql.NewObject(graphql.ObjectConfig{
		Name: "Episode",
		Fields: graphql.Fields{
			"id":              prop(graphql.NewNonNull(graphql.Int), func(s *service.EpisodeResponse) any { return s.ID }),
			"uuid":            prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeResponse) any { return s.UUID.String() }),
			"createdAt":       prop(graphql.NewNonNull(graphql.DateTime), func(s *service.EpisodeResponse) any { return s.CreatedAt }),
			"name":            prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeResponse) any { return s.Name }),
			"airDate":         prop(graphql.String, func(s *service.EpisodeResponse) any { return s.AirDate }),
			"duration":        prop(graphql.Int, func(s *service.EpisodeResponse) any { return s.Duration }),
			"productionCode":  prop(graphql.String, func(s *service.EpisodeResponse) any { return s.ProductionCode }),
			"broadcastNumber": prop(graphql.Int, func(s *service.EpisodeResponse) any { return s.BroadcastNumber }),
			"broadcastCode":   prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeResponse) any { return s.BroadcastCode }),
			"season":          prop(seasonRef, func(s *service.EpisodeResponse) any { return s.Season }),
			"characters": prop(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(character))),
				func(s *service.EpisodeResponse) any { return s.Characters }),
		},
	})

	episodeRef := graphql.NewObject(graphql.ObjectConfig{
		Name: "EpisodeRef",
		Fields: graphql.Fields{
			"id":            prop(graphql.NewNonNull(graphql.Int), func(s *service.EpisodeRef) any { return s.ID }),
			"uuid":          prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeRef) any { return s.UUID.String() }),
			"name":          prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeRef) any { return s.Name }),
			"airDate":       prop(graphql.String, func(s *service.EpisodeRef) any { return s.AirDate }),
			"broadcastCode": prop(graphql.NewNonNull(graphql.String), func(s *service.EpisodeRef) any { return s.BroadcastCode }),
		},
	})

	season := graphql.NewObject(graphql.ObjectConfig{
		Name: "Season",
		Fields: graphql.Fields{
			"id":        prop(graphql.NewNonNull(graphql.Int), func(s *service.SeasonResponse) any { return s.ID }),
			"uuid":      prop(graphql.NewNonNull(graphql.String), func(s *service.SeasonResponse) any { return s.UUID.String() }),
			"createdAt": prop(graphql.NewNonNull(graphql.DateTime), func(s *service.SeasonResponse) any { return s.CreatedAt }),
			"episodes": prop(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(episodeRef))),
				func(s *service.SeasonResponse) any { return s.Episodes }),
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"character": &graphql.Field{Type: character, Args: idArgs, Resolve: getResolver(c.Characters)},
			"characters": &graphql.Field{
				Type: graphql.NewNonNull(pageType("CharacterPage", character)),
				Args: listArgs(graphql.FieldConfigArgument{
					"gender":  &graphql.ArgumentConfig{Type: genderEnum},
					"status":  &graphql.ArgumentConfig{Type: statusEnum},
					"species": &graphql.ArgumentConfig{Type: speciesEnum},
				}),
				Resolve: listResolver(c.Characters, "gender", "status", "species"),
			},
			"episode": &graphql.Field{Type: episode, Args: idArgs, Resolve: getResolver(c.Episodes)},
			"episodes": &graphql.Field{
				Type:    graphql.NewNonNull(pageType("EpisodePage", episode)),
				Args:    listArgs(nil),
				Resolve: listResolver(c.Episodes),
			},
			"season": &graphql.Field{Type: season, Args: idArgs, Resolve: getResolver(c.Seasons)},
			"seasons": &graphql.Field{
				Type:    graphql.NewNonNull(pageType("SeasonPage", season)),
				Args:    listArgs(nil),
				Resolve: listResolver(c.Seasons),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
