package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homebase-finder/internal/geo"
)

// GeoHandler serves the region → province → city → barangay cascade.
type GeoHandler struct {
	Data     *geo.Dataset
	Resolver *geo.Resolver
}

func NewGeoHandler(data *geo.Dataset) *GeoHandler {
	return &GeoHandler{Data: data, Resolver: geo.NewResolver(data)}
}

func (h *GeoHandler) Regions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Regions()})
}

func (h *GeoHandler) Provinces(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.ProvincesOf(c.Param("code"))})
}

func (h *GeoHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.CitiesOf(c.Param("code"))})
}

func (h *GeoHandler) Barangays(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.BarangaysOf(c.Param("code"))})
}

type resolveReq struct {
	geo.Codes
	Street string `json:"street"`
	Zip    string `json:"zip"`
}

// Resolve handles POST /v1/geo/resolve and returns the named address
// together with its composed single-line form.
func (h *GeoHandler) Resolve(c echo.Context) error {
	var req resolveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sa, err := h.Resolver.Resolve(req.Codes, req.Street, req.Zip)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"structuredAddress": sa,
		"address":           geo.ComposeAddress(sa),
	})
}
