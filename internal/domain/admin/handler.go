package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/VaneSolis/Sitio-AFAD/internal/domain/activitylog"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/contacts"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/donations"
	"github.com/VaneSolis/Sitio-AFAD/internal/domain/pets"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/apperr"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

func RegisterRoutes(r chi.Router, svc *Service, res *httpresp.Writer, pd pagination.Defaults) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Get("/dashboard", dashboardHandler(svc, res))
		ar.Get("/stats/donaciones", donationStatsHandler(svc, res))
		ar.Get("/stats/mascotas", petStatsHandler(svc, res))
		ar.Get("/logs", listLogsHandler(svc, res, pd))
		ar.Get("/logs/stats", logStatsHandler(svc, res))
	})
}

type countsResponse struct {
	AvailablePets      int64   `json:"mascotasDisponibles"`
	AdoptedPets        int64   `json:"mascotasAdoptadas"`
	CompletedDonations int64   `json:"donacionesCompletadas"`
	Raised             float64 `json:"totalRecaudado"`
	PendingContacts    int64   `json:"contactosPendientes"`
	PendingAdoptions   int64   `json:"solicitudesPendientes"`
}

type recentResponse struct {
	Pets      []pets.PetResponse           `json:"mascotas"`
	Donations []donations.DonationResponse `json:"donaciones"`
	Contacts  []contacts.ContactResponse   `json:"contactos"`
}

type dashboardResponse struct {
	Stats  countsResponse `json:"estadisticas"`
	Recent recentResponse `json:"recientes"`
}

type logResponse struct {
	ID        int64             `json:"id"`
	Level     activitylog.Level `json:"nivel"`
	Message   string            `json:"mensaje"`
	IP        string            `json:"ip_address"`
	UserAgent string            `json:"user_agent"`
	UserID    *int64            `json:"usuario_id"`
	UserName  string            `json:"usuario_nombre"`
	CreatedAt time.Time         `json:"created_at"`
}

type listLogsResponse struct {
	Logs       []logResponse   `json:"logs"`
	Pagination pagination.Meta `json:"pagination"`
}

type dailyCountResponse struct {
	Date  string            `json:"fecha"`
	Level activitylog.Level `json:"nivel"`
	Count int64             `json:"cantidad"`
}

// dashboardHandler godoc
// @Summary Dashboard de administración
// @Description Contadores generales y los 5 elementos más recientes de mascotas, donaciones y contactos.
// @Tags admin
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=dashboardResponse}
// @Router /admin/dashboard [get]
func dashboardHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Dashboard(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, toDashboardResponse(d, svc.donations.Reference))
	}
}

// donationStatsHandler godoc
// @Summary Estadísticas de donaciones
// @Tags admin
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=donations.StatsResponse}
// @Router /admin/stats/donaciones [get]
func donationStatsHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.DonationStats(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, donations.ToStatsResponse(st))
	}
}

// petStatsHandler godoc
// @Summary Estadísticas de mascotas
// @Tags admin
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=pets.StatsResponse}
// @Router /admin/stats/mascotas [get]
func petStatsHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.PetStats(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, pets.ToStatsResponse(st))
	}
}

// listLogsHandler godoc
// @Summary Log de actividad
// @Description Lista paginada, más reciente primero. Las fechas aceptan YYYY-MM-DD (fechaHasta incluye el día completo) o RFC3339.
// @Tags admin
// @Produce json
// @Param nivel query string false "info | warning | error"
// @Param fechaDesde query string false "Desde (inclusive)"
// @Param fechaHasta query string false "Hasta (inclusive)"
// @Param page query int false "Página (>= 1, default 1)"
// @Param limit query int false "Tamaño de página (1-100, default 20)"
// @Success 200 {object} httpresp.Envelope{data=listLogsResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /admin/logs [get]
func listLogsHandler(svc *Service, res *httpresp.Writer, pd pagination.Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := pagination.Parse(q, pd)
		if err != nil {
			res.Err(w, r, err)
			return
		}

		from, err := parseDate("fechaDesde", q.Get("fechaDesde"), false)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		to, err := parseDate("fechaHasta", q.Get("fechaHasta"), true)
		if err != nil {
			res.Err(w, r, err)
			return
		}

		items, meta, err := svc.Logs(r.Context(), activitylog.ListInput{
			Level: q.Get("nivel"),
			From:  from,
			To:    to,
			Page:  page,
		})
		if err != nil {
			res.Err(w, r, err)
			return
		}

		out := make([]logResponse, 0, len(items))
		for _, e := range items {
			out = append(out, logResponse{
				ID:        e.ID,
				Level:     e.Level,
				Message:   e.Message,
				IP:        e.Origin.IP,
				UserAgent: e.Origin.UserAgent,
				UserID:    e.Origin.UserID,
				UserName:  e.UserName,
				CreatedAt: e.CreatedAt,
			})
		}
		res.OK(w, listLogsResponse{Logs: out, Pagination: meta})
	}
}

// logStatsHandler godoc
// @Summary Estadísticas del log
// @Description Cantidad de entradas por nivel y por día de los últimos 7 días.
// @Tags admin
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=[]dailyCountResponse}
// @Router /admin/logs/stats [get]
func logStatsHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.LogStats(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		out := make([]dailyCountResponse, 0, len(counts))
		for _, c := range counts {
			out = append(out, dailyCountResponse{Date: c.Date, Level: c.Level, Count: c.Count})
		}
		res.OK(w, out)
	}
}

// parseDate acepta YYYY-MM-DD o cualquier formato que entienda cast (RFC3339, etc).
// Con endOfDay, una fecha sin hora cubre el día completo.
func parseDate(field, raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}

	t, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, apperr.Invalid(field, "fecha inválida (use YYYY-MM-DD)")
	}
	t = t.UTC()
	return &t, nil
}

func toDashboardResponse(d Dashboard, reference func(int64) string) dashboardResponse {
	petsOut := make([]pets.PetResponse, 0, len(d.RecentPets))
	for _, p := range d.RecentPets {
		petsOut = append(petsOut, pets.ToResponse(p))
	}
	donationsOut := make([]donations.DonationResponse, 0, len(d.RecentDonations))
	for _, dn := range d.RecentDonations {
		donationsOut = append(donationsOut, donations.ToResponse(dn, reference(dn.ID)))
	}
	contactsOut := make([]contacts.ContactResponse, 0, len(d.RecentContacts))
	for _, c := range d.RecentContacts {
		contactsOut = append(contactsOut, contacts.ToResponse(c))
	}

	return dashboardResponse{
		Stats: countsResponse{
			AvailablePets:      d.Counts.AvailablePets,
			AdoptedPets:        d.Counts.AdoptedPets,
			CompletedDonations: d.Counts.CompletedDonations,
			Raised:             d.Counts.Raised,
			PendingContacts:    d.Counts.PendingContacts,
			PendingAdoptions:   d.Counts.PendingAdoptions,
		},
		Recent: recentResponse{
			Pets:      petsOut,
			Donations: donationsOut,
			Contacts:  contactsOut,
		},
	}
}
