package donations

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

func RegisterRoutes(r chi.Router, svc *Service, res *httpresp.Writer, pd pagination.Defaults) {
	r.Route("/donaciones", func(dr chi.Router) {
		dr.Get("/", listDonationsHandler(svc, res, pd))
		dr.Post("/", createDonationHandler(svc, res))
		dr.Get("/stats", donationStatsHandler(svc, res))

		dr.Get("/{id}", getDonationHandler(svc, res))
		dr.Put("/{id}/estado", updateDonationStatusHandler(svc, res))
		dr.Delete("/{id}", deleteDonationHandler(svc, res))
	})
}

type DonationResponse struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"referencia"`
	Name       string    `json:"nombre"`
	Email      string    `json:"email"`
	Phone      string    `json:"telefono"`
	Amount     float64   `json:"monto"`
	Method     Method    `json:"metodo_pago"`
	Message    string    `json:"mensaje"`
	Status     Status    `json:"estado"`
	PaymentRef string    `json:"referencia_pago"`
	DonatedAt  time.Time `json:"fecha_donacion"`
	Processed  bool      `json:"procesado"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listDonationsResponse struct {
	Donations  []DonationResponse `json:"donaciones"`
	Pagination pagination.Meta    `json:"pagination"`
}

type createdDonationResponse struct {
	ID        int64  `json:"id"`
	Reference string `json:"referencia"`
}

type methodTotalResponse struct {
	Method Method  `json:"metodo_pago"`
	Count  int64   `json:"cantidad"`
	Total  float64 `json:"total"`
}

type monthTotalResponse struct {
	Month string  `json:"mes"`
	Count int64   `json:"cantidad"`
	Total float64 `json:"total"`
}

type StatsResponse struct {
	Count     int64                 `json:"totalDonaciones"`
	Amount    float64               `json:"montoTotal"`
	Average   float64               `json:"promedio"`
	Raised    float64               `json:"totalRecaudado"`
	Completed int64                 `json:"completadas"`
	Pending   int64                 `json:"pendientes"`
	ByMethod  []methodTotalResponse `json:"porMetodo"`
	ByMonth   []monthTotalResponse  `json:"porMes"`
}

// listDonationsHandler godoc
// @Summary Listar donaciones
// @Tags donaciones
// @Produce json
// @Param estado query string false "pendiente | completado | cancelado | rechazado"
// @Param metodo_pago query string false "paypal | transferencia | efectivo"
// @Param search query string false "Texto a buscar en nombre/email"
// @Param page query int false "Página (>= 1, default 1)"
// @Param limit query int false "Tamaño de página (1-100, default 20)"
// @Success 200 {object} httpresp.Envelope{data=listDonationsResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /donaciones [get]
func listDonationsHandler(svc *Service, res *httpresp.Writer, pd pagination.Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := pagination.Parse(q, pd)
		if err != nil {
			res.Err(w, r, err)
			return
		}

		items, meta, err := svc.List(r.Context(), ListInput{
			Status: q.Get("estado"),
			Method: q.Get("metodo_pago"),
			Search: q.Get("search"),
			Page:   page,
		})
		if err != nil {
			res.Err(w, r, err)
			return
		}

		out := make([]DonationResponse, 0, len(items))
		for _, d := range items {
			out = append(out, ToResponse(d, svc.Reference(d.ID)))
		}
		res.OK(w, listDonationsResponse{Donations: out, Pagination: meta})
	}
}

// getDonationHandler godoc
// @Summary Obtener donación
// @Tags donaciones
// @Produce json
// @Param id path int true "ID de la donación"
// @Success 200 {object} httpresp.Envelope{data=DonationResponse}
// @Failure 404 {object} httpresp.Envelope
// @Router /donaciones/{id} [get]
func getDonationHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		d, err := svc.GetByID(r.Context(), id)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, ToResponse(d, svc.Reference(d.ID)))
	}
}

// createDonationHandler godoc
// @Summary Registrar donación
// @Description Registra la donación como pendiente. El recibo al donante y el aviso al admin se envían aparte y sus fallas no afectan la respuesta.
// @Tags donaciones
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos de la donación"
// @Success 201 {object} httpresp.Envelope{data=createdDonationResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /donaciones [post]
func createDonationHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpresp.DecodeJSON(r, &in); err != nil {
			res.Err(w, r, err)
			return
		}

		d, err := svc.Create(r.Context(), in)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.Created(w, "Donación registrada exitosamente", createdDonationResponse{
			ID:        d.ID,
			Reference: svc.Reference(d.ID),
		})
	}
}

// updateDonationStatusHandler godoc
// @Summary Actualizar estado de donación
// @Tags donaciones
// @Accept json
// @Produce json
// @Param id path int true "ID de la donación"
// @Param payload body StatusInput true "Nuevo estado"
// @Success 200 {object} httpresp.Envelope
// @Failure 400 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /donaciones/{id}/estado [put]
func updateDonationStatusHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		var in StatusInput
		if err := httpresp.DecodeJSON(r, &in); err != nil {
			res.Err(w, r, err)
			return
		}

		if err := svc.UpdateStatus(r.Context(), id, in); err != nil {
			res.Err(w, r, err)
			return
		}
		res.Message(w, "Estado de donación actualizado")
	}
}

// deleteDonationHandler godoc
// @Summary Eliminar donación
// @Tags donaciones
// @Produce json
// @Param id path int true "ID de la donación"
// @Success 200 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /donaciones/{id} [delete]
func deleteDonationHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			res.Err(w, r, err)
			return
		}
		res.Message(w, "Donación eliminada exitosamente")
	}
}

// donationStatsHandler godoc
// @Summary Estadísticas de donaciones
// @Tags donaciones
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=StatsResponse}
// @Router /donaciones/stats [get]
func donationStatsHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, ToStatsResponse(st))
	}
}

// ToResponse recibe la referencia ya armada (ver Service.Reference).
func ToResponse(d Donation, reference string) DonationResponse {
	return DonationResponse{
		ID:         d.ID,
		Reference:  reference,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Amount:     d.Amount,
		Method:     d.Method,
		Message:    d.Message,
		Status:     d.Status,
		PaymentRef: d.PaymentRef,
		DonatedAt:  d.DonatedAt,
		Processed:  d.Processed,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func ToStatsResponse(st Stats) StatsResponse {
	methods := make([]methodTotalResponse, 0, len(st.ByMethod))
	for _, m := range st.ByMethod {
		methods = append(methods, methodTotalResponse{Method: m.Method, Count: m.Count, Total: m.Total})
	}
	months := make([]monthTotalResponse, 0, len(st.ByMonth))
	for _, m := range st.ByMonth {
		months = append(months, monthTotalResponse{Month: m.Month, Count: m.Count, Total: m.Total})
	}
	return StatsResponse{
		Count:     st.Count,
		Amount:    st.Amount,
		Average:   st.Average,
		Raised:    st.Raised,
		Completed: st.Completed,
		Pending:   st.Pending,
		ByMethod:  methods,
		ByMonth:   months,
	}
}
