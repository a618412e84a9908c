package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/pkg/geospatial"
	"github.com/samirrijal/fieldmap/internal/pkg/metrics"
)

// maxPoints bounds the size of a boundary accepted over HTTP.
const maxPoints = 10000

// PointsRequest is the body of POST /v1/records and POST /v1/area.
type PointsRequest struct {
	Points []domain.GeoPoint `json:"points"`
}

// RecordResponse describes a boundary with its derived measures.
type RecordResponse struct {
	Name            string            `json:"name,omitempty"`
	Points          []domain.GeoPoint `json:"points"`
	Area            domain.Area       `json:"area"`
	PerimeterMeters float64           `json:"perimeter_meters"`
	Bounds          *domain.Bounds    `json:"bounds,omitempty"`
}

func newRecordResponse(name string, bp *domain.BoundaryPolygon) RecordResponse {
	return RecordResponse{
		Name:            name,
		Points:          bp.Points(),
		Area:            bp.Area(),
		PerimeterMeters: bp.Perimeter(),
		Bounds:          bp.Bounds(),
	}
}

// parsePoints decodes and range-checks the request body.
func parsePoints(c *fiber.Ctx) ([]domain.GeoPoint, error) {
	var req PointsRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Points) > maxPoints {
		return nil, fmt.Errorf("too many points (max %d)", maxPoints)
	}
	for i, p := range req.Points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return req.Points, nil
}

// ListRecordsHandler returns the saved record names of the caller's namespace.
func ListRecordsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		names, err := deps.Fields.List(c.UserContext(), ns)
		if err != nil {
			return errFromDomain(c, err)
		}

		offset, limit := pageParams(c, 100, 500)
		page, pg := paginate(names, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetRecordHandler returns one saved boundary with its area and perimeter.
func GetRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		name := c.Params("name")

		bp, err := deps.Fields.Get(c.UserContext(), ns, name)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(newRecordResponse(name, bp))
	}
}

// RecordGeoJSONHandler returns one saved boundary as a GeoJSON Feature.
func RecordGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		name := c.Params("name")

		bp, err := deps.Fields.Get(c.UserContext(), ns, name)
		if err != nil {
			return errFromDomain(c, err)
		}

		area := bp.Area()
		data, err := geospatial.Feature(name, domain.Coords(bp.Points()), map[string]interface{}{
			"name":             name,
			"square_meters":    area.SquareMeters,
			"hectares":         area.Hectares,
			"perimeter_meters": bp.Perimeter(),
		})
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

// CreateRecordHandler saves the posted points under the next free name.
func CreateRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ns, err := requestNamespace(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		points, err := parsePoints(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		name, err := deps.Fields.Create(c.UserContext(), ns, points)
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.RecordsSaved.WithLabelValues("api").Inc()
		LoggerFromCtx(c.UserContext()).Info("record saved", "namespace", string(ns), "name", name, "points", len(points))

		c.Location("/v1/records/" + name)
		return c.Status(fiber.StatusCreated).JSON(newRecordResponse(name, domain.NewBoundaryPolygon(points...)))
	}
}

// AreaHandler measures the posted points without saving them.
func AreaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := parsePoints(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(newRecordResponse("", domain.NewBoundaryPolygon(points...)))
	}
}
