package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/parcelmap/internal/core/domain"
	"github.com/samirrijal/parcelmap/internal/core/usecases"
)

// buildSchema creates the read-only GraphQL schema over live sessions.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	shapeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Shape",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"area":        &graphql.Field{Type: graphql.String, Description: "Area in km², two decimals"},
			"country":     &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.String},
			"highlighted": &graphql.Field{Type: graphql.Boolean},
			"markers":     &graphql.Field{Type: graphql.Int, Description: "Number of vertex markers"},
		},
	})

	listRowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ListRow",
		Fields: graphql.Fields{
			"shape_id":    &graphql.Field{Type: graphql.String},
			"area":        &graphql.Field{Type: graphql.String},
			"country":     &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.String},
			"highlighted": &graphql.Field{Type: graphql.Boolean},
			"pending":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	listPanelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ListPanel",
		Fields: graphql.Fields{
			"rows":          &graphql.Field{Type: graphql.NewList(listRowType)},
			"show_save_all": &graphql.Field{Type: graphql.Boolean},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"opened_at": &graphql.Field{Type: graphql.String},
			"shapes":    &graphql.Field{Type: graphql.Int},
			"annotated": &graphql.Field{Type: graphql.Int},
			"editing":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	sessionArg := graphql.FieldConfigArgument{
		"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sessions": &graphql.Field{
				Type:        graphql.NewList(sessionType),
				Description: "Live annotation sessions, oldest first",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var result []map[string]interface{}
					for _, s := range deps.Hub.List() {
						snap, err := s.Snapshot(p.Context)
						if err != nil {
							continue
						}
						sum := summarize(s, snap)
						result = append(result, map[string]interface{}{
							"id":        sum.ID,
							"opened_at": sum.OpenedAt.Format(time.RFC3339),
							"shapes":    sum.Shapes,
							"annotated": sum.Annotated,
							"editing":   sum.Editing,
						})
					}
					return result, nil
				},
			},
			"shapes": &graphql.Field{
				Type:        graphql.NewList(shapeType),
				Description: "Shapes of a session in creation order",
				Args:        sessionArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap, err := sessionSnapshot(p, deps)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(snap.Shapes))
					for _, s := range snap.Shapes {
						result = append(result, shapeMap(s, snap.Markers[s.ID]))
					}
					return result, nil
				},
			},
			"listPanel": &graphql.Field{
				Type:        listPanelType,
				Description: "Annotated shapes as rendered in the list panel",
				Args:        sessionArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap, err := sessionSnapshot(p, deps)
					if err != nil {
						return nil, err
					}
					rows := make([]map[string]interface{}, 0, len(snap.List.Rows))
					for _, r := range snap.List.Rows {
						rows = append(rows, map[string]interface{}{
							"shape_id":    string(r.ShapeID),
							"area":        r.Area,
							"country":     r.Country,
							"price":       r.Price,
							"highlighted": r.Highlighted,
							"pending":     r.Pending,
						})
					}
					return map[string]interface{}{
						"rows":          rows,
						"show_save_all": snap.List.ShowSaveAll,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func sessionSnapshot(p graphql.ResolveParams, deps *Dependencies) (usecases.Snapshot, error) {
	s, err := deps.Hub.Get(p.Args["session"].(string))
	if err != nil {
		return usecases.Snapshot{}, err
	}
	return s.Snapshot(p.Context)
}

func shapeMap(s domain.Shape, markers int) map[string]interface{} {
	return map[string]interface{}{
		"id":          string(s.ID),
		"area":        s.Area,
		"country":     s.Country,
		"price":       s.Price,
		"highlighted": s.Highlighted,
		"markers":     markers,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return newError(c, 400, "bad_request", "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		if result.HasErrors() {
			LoggerFromCtx(c.UserContext()).Debug("graphql query failed", "errors", len(result.Errors))
		}

		return c.JSON(result)
	}
}
