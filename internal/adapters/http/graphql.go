package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/pkg/metrics"
)

const namespaceKey ctxKey = "namespace"

func namespaceFromCtx(ctx context.Context) domain.Namespace {
	ns, _ := ctx.Value(namespaceKey).(domain.Namespace)
	return ns
}

// pointsArg converts a [PointInput!]! argument.
func pointsArg(raw interface{}) ([]domain.GeoPoint, error) {
	items, _ := raw.([]interface{})
	if len(items) > maxPoints {
		return nil, fmt.Errorf("too many points (max %d)", maxPoints)
	}
	points := make([]domain.GeoPoint, 0, len(items))
	for i, item := range items {
		m, _ := item.(map[string]interface{})
		lat, _ := m["latitude"].(float64)
		lon, _ := m["longitude"].(float64)
		p := domain.GeoPoint{Lat: lat, Lon: lon}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// buildSchema creates the GraphQL schema wired to our services.
// Field names follow the JSON tags of the REST responses so graphql-go's
// default resolver can read the same structs.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	pointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"latitude":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"longitude": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	areaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Area",
		Fields: graphql.Fields{
			"square_meters": &graphql.Field{Type: graphql.Float},
			"hectares":      &graphql.Field{Type: graphql.Float},
			"planar":        &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Record",
		Fields: graphql.Fields{
			"name":             &graphql.Field{Type: graphql.String},
			"points":           &graphql.Field{Type: graphql.NewList(geoPointType)},
			"area":             &graphql.Field{Type: areaType},
			"perimeter_meters": &graphql.Field{Type: graphql.Float},
			"bounds":           &graphql.Field{Type: boundsType},
		},
	})

	pointsArgs := graphql.FieldConfigArgument{
		"points": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(pointInput)))},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"records": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Saved record names, in numeric order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Fields.List(p.Context, namespaceFromCtx(p.Context))
				},
			},
			"record": &graphql.Field{
				Type:        recordType,
				Description: "Get a saved record by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := p.Args["name"].(string)
					bp, err := deps.Fields.Get(p.Context, namespaceFromCtx(p.Context), name)
					if err != nil {
						return nil, err
					}
					return newRecordResponse(name, bp), nil
				},
			},
			"area": &graphql.Field{
				Type:        recordType,
				Description: "Measure a boundary without saving it",
				Args:        pointsArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					points, err := pointsArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					return newRecordResponse("", domain.NewBoundaryPolygon(points...)), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"saveRecord": &graphql.Field{
				Type:        recordType,
				Description: "Save a boundary under the next free name",
				Args:        pointsArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					points, err := pointsArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					name, err := deps.Fields.Create(p.Context, namespaceFromCtx(p.Context), points)
					if err != nil {
						return nil, err
					}
					metrics.RecordsSaved.WithLabelValues("graphql").Inc()
					return newRecordResponse(name, domain.NewBoundaryPolygon(points...)), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
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
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        context.WithValue(c.UserContext(), namespaceKey, ns),
		})

		return c.JSON(result)
	}
}
