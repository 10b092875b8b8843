package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// Locations lists the supported cities.
func (h *Handler) Locations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": h.envSvc.Locations(c.Request.Context())})
}

// CurrentConditions returns the snapshot for ?city=.
func (h *Handler) CurrentConditions(c *gin.Context) {
	snap, err := h.envSvc.Current(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Forecast returns hourly readings; ?hours= defaults on the service side.
func (h *Handler) Forecast(c *gin.Context) {
	hours, ok := queryInt(c, "hours")
	if !ok {
		return
	}
	city := c.Query("city")
	readings, err := h.envSvc.Forecast(c.Request.Context(), city, hours)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "forecast": readings})
}

// History returns daily readings; ?days= defaults on the service side.
func (h *Handler) History(c *gin.Context) {
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	city := c.Query("city")
	readings, err := h.envSvc.History(c.Request.Context(), city, days)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "history": readings})
}

// Annual returns the monthly series for the past year.
func (h *Handler) Annual(c *gin.Context) {
	points, err := h.envSvc.Annual(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"annual": points})
}

// Hubs compares global hubs, excluding the requested city.
func (h *Handler) Hubs(c *gin.Context) {
	hubs, err := h.envSvc.Hubs(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hubs": hubs})
}

// CarbonTrend returns the yearly carbon emission series.
func (h *Handler) CarbonTrend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trend": h.envSvc.CarbonTrend(c.Request.Context())})
}

// Live returns surface conditions at ?lat=&lon=, or at the city's coordinates.
func (h *Handler) Live(c *gin.Context) {
	lat, hasLat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, hasLon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if !hasLat || !hasLon {
		loc, err := h.envSvc.Resolve(ctx, c.Query("city"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		lat, lon = loc.Lat, loc.Lon
	}
	live, err := h.envSvc.Live(ctx, lat, lon)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, live)
}

// Tips returns guidance for ?aqi=, for a PM2.5 concentration in ?pm25= (µg/m³),
// or for the city's current AQI.
func (h *Handler) Tips(c *gin.Context) {
	aqi, ok := queryInt(c, "aqi")
	if !ok {
		return
	}
	pm25, hasPM25, ok := queryFloat(c, "pm25")
	if !ok {
		return
	}
	switch {
	case c.Query("aqi") != "":
	case hasPM25:
		if pm25 < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "pm25 must not be negative", nil))
			return
		}
		aqi = environment.PM25ToAQI(pm25)
	default:
		snap, err := h.envSvc.Current(c.Request.Context(), c.Query("city"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		aqi = snap.Current.AQI
	}
	c.JSON(http.StatusOK, gin.H{
		"aqi":      aqi,
		"category": environment.Category(aqi),
		"tips":     environment.CategoryTips(aqi),
	})
}
