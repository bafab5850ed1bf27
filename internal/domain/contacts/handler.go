package contacts

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

// RegisterRoutes monta /contacto y su alias /contactos.
func RegisterRoutes(r chi.Router, svc *Service, res *httpresp.Writer, pd pagination.Defaults) {
	routes := func(cr chi.Router) {
		cr.Get("/", listContactsHandler(svc, res, pd))
		cr.Post("/", createContactHandler(svc, res))

		cr.Get("/{id}", getContactHandler(svc, res))
		cr.Put("/{id}/responder", respondContactHandler(svc, res))
		cr.Delete("/{id}", deleteContactHandler(svc, res))
	}
	r.Route("/contacto", routes)
	r.Route("/contactos", routes)
}

type ContactResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"nombre"`
	Email       string     `json:"email"`
	Phone       string     `json:"telefono"`
	Message     string     `json:"mensaje"`
	Status      Status     `json:"estado"`
	ContactedAt time.Time  `json:"fecha_contacto"`
	Responded   bool       `json:"respondido"`
	RespondedAt *time.Time `json:"fecha_respuesta"`
	Notes       string     `json:"observaciones"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listContactsResponse struct {
	Contacts   []ContactResponse `json:"contactos"`
	Pagination pagination.Meta   `json:"pagination"`
}

type createdContactResponse struct {
	ID int64 `json:"id"`
}

// listContactsHandler godoc
// @Summary Listar mensajes de contacto
// @Tags contacto
// @Produce json
// @Param estado query string false "nuevo | respondido"
// @Param respondido query bool false "Filtrar por respondido"
// @Param page query int false "Página (>= 1, default 1)"
// @Param limit query int false "Tamaño de página (1-100, default 20)"
// @Success 200 {object} httpresp.Envelope{data=listContactsResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /contacto [get]
func listContactsHandler(svc *Service, res *httpresp.Writer, pd pagination.Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := pagination.Parse(q, pd)
		if err != nil {
			res.Err(w, r, err)
			return
		}

		items, meta, err := svc.List(r.Context(), ListInput{
			Status:    q.Get("estado"),
			Responded: q.Get("respondido"),
			Page:      page,
		})
		if err != nil {
			res.Err(w, r, err)
			return
		}

		out := make([]ContactResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToResponse(c))
		}
		res.OK(w, listContactsResponse{Contacts: out, Pagination: meta})
	}
}

// getContactHandler godoc
// @Summary Obtener mensaje de contacto
// @Tags contacto
// @Produce json
// @Param id path int true "ID del mensaje"
// @Success 200 {object} httpresp.Envelope{data=ContactResponse}
// @Failure 404 {object} httpresp.Envelope
// @Router /contacto/{id} [get]
func getContactHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		c, err := svc.GetByID(r.Context(), id)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, ToResponse(c))
	}
}

// createContactHandler godoc
// @Summary Enviar mensaje de contacto
// @Tags contacto
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Mensaje"
// @Success 201 {object} httpresp.Envelope{data=createdContactResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /contacto [post]
func createContactHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpresp.DecodeJSON(r, &in); err != nil {
			res.Err(w, r, err)
			return
		}

		c, err := svc.Create(r.Context(), in)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.Created(w, "Mensaje enviado exitosamente", createdContactResponse{ID: c.ID})
	}
}

// respondContactHandler godoc
// @Summary Marcar mensaje como respondido
// @Description Idempotente: repetirlo actualiza fecha_respuesta y observaciones.
// @Tags contacto
// @Accept json
// @Produce json
// @Param id path int true "ID del mensaje"
// @Param payload body RespondInput false "Observaciones"
// @Success 200 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /contacto/{id}/responder [put]
func respondContactHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		// El body es opcional.
		var in RespondInput
		if r.ContentLength != 0 {
			if err := httpresp.DecodeJSON(r, &in); err != nil {
				res.Err(w, r, err)
				return
			}
		}

		if err := svc.MarkResponded(r.Context(), id, in); err != nil {
			res.Err(w, r, err)
			return
		}
		res.Message(w, "Mensaje marcado como respondido")
	}
}

// deleteContactHandler godoc
// @Summary Eliminar mensaje de contacto
// @Tags contacto
// @Produce json
// @Param id path int true "ID del mensaje"
// @Success 200 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /contacto/{id} [delete]
func deleteContactHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
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
		res.Message(w, "Mensaje eliminado exitosamente")
	}
}

func ToResponse(c Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Message:     c.Message,
		Status:      c.Status,
		ContactedAt: c.ContactedAt,
		Responded:   c.Responded,
		RespondedAt: c.RespondedAt,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
