package pets

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/httpresp"
	"github.com/VaneSolis/Sitio-AFAD/internal/platform/pagination"
)

func RegisterRoutes(r chi.Router, svc *Service, res *httpresp.Writer, pd pagination.Defaults) {
	r.Route("/mascotas", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, res, pd))
		pr.Post("/", createPetHandler(svc, res))
		pr.Get("/stats/overview", petStatsHandler(svc, res))

		pr.Get("/{id}", getPetHandler(svc, res))
		pr.Put("/{id}", updatePetHandler(svc, res))
		pr.Delete("/{id}", deletePetHandler(svc, res))
	})
}

// petRequest acepta "tamaño" y también "tamano" (clientes sin soporte de ñ).
type petRequest struct {
	Input
	SizeASCII string `json:"tamano"`
}

func (req petRequest) input() Input {
	in := req.Input
	if in.Size == "" {
		in.Size = req.SizeASCII
	}
	return in
}

type PetResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"nombre"`
	Species     Species    `json:"tipo"`
	Age         Age        `json:"edad"`
	Size        Size       `json:"tamaño"`
	Description string     `json:"descripcion"`
	Image       string     `json:"imagen"`
	Status      Status     `json:"estado"`
	IntakeAt    time.Time  `json:"fecha_ingreso"`
	AdoptedAt   *time.Time `json:"fecha_adopcion"`
	AdopterID   *int64     `json:"adoptante_id"`
	Traits      []string   `json:"caracteristicas"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listPetsResponse struct {
	Pets       []PetResponse   `json:"mascotas"`
	Pagination pagination.Meta `json:"pagination"`
}

type createdPetResponse struct {
	ID int64 `json:"id"`
}

type countResponse struct {
	Key   string `json:"clave"`
	Count int64  `json:"cantidad"`
}

type monthCountResponse struct {
	Month string `json:"mes"`
	Count int64  `json:"cantidad"`
}

type StatsResponse struct {
	Total            int64                `json:"totalMascotas"`
	ByType           []countResponse      `json:"porTipo"`
	ByStatus         []countResponse      `json:"porEstado"`
	ByAge            []countResponse      `json:"porEdad"`
	BySize           []countResponse      `json:"porTamaño"`
	AdoptedThisMonth int64                `json:"adoptadasEsteMes"`
	AdoptedByMonth   []monthCountResponse `json:"adoptadasPorMes"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Lista paginada de mascotas con sus características. Por defecto sólo las disponibles; `estado=todos` quita el filtro.
// @Tags mascotas
// @Produce json
// @Param tipo query string false "perro | gato"
// @Param edad query string false "cachorro | joven | adulto | senior"
// @Param tamaño query string false "pequeño | mediano | grande"
// @Param estado query string false "Estado (default disponible, `todos` = sin filtro)"
// @Param search query string false "Texto a buscar en nombre/descripción"
// @Param page query int false "Página (>= 1, default 1)"
// @Param limit query int false "Tamaño de página (1-100, default 20)"
// @Success 200 {object} httpresp.Envelope{data=listPetsResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /mascotas [get]
func listPetsHandler(svc *Service, res *httpresp.Writer, pd pagination.Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := pagination.Parse(q, pd)
		if err != nil {
			res.Err(w, r, err)
			return
		}

		size := q.Get("tamaño")
		if size == "" {
			size = q.Get("tamano")
		}

		items, meta, err := svc.List(r.Context(), ListInput{
			Species: q.Get("tipo"),
			Age:     q.Get("edad"),
			Size:    size,
			Status:  q.Get("estado"),
			Search:  q.Get("search"),
			Page:    page,
		})
		if err != nil {
			res.Err(w, r, err)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToResponse(p))
		}
		res.OK(w, listPetsResponse{Pets: out, Pagination: meta})
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags mascotas
// @Produce json
// @Param id path int true "ID de la mascota"
// @Success 200 {object} httpresp.Envelope{data=PetResponse}
// @Failure 404 {object} httpresp.Envelope
// @Router /mascotas/{id} [get]
func getPetHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, ToResponse(p))
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea la mascota y sus características en una sola transacción.
// @Tags mascotas
// @Accept json
// @Produce json
// @Param payload body Input true "Datos de la mascota"
// @Success 201 {object} httpresp.Envelope{data=createdPetResponse}
// @Failure 400 {object} httpresp.Envelope
// @Router /mascotas [post]
func createPetHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := httpresp.DecodeJSON(r, &req); err != nil {
			res.Err(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), req.input())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.Created(w, "Mascota creada exitosamente", createdPetResponse{ID: p.ID})
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Reemplazo completo: las características enviadas sustituyen a las anteriores.
// @Tags mascotas
// @Accept json
// @Produce json
// @Param id path int true "ID de la mascota"
// @Param payload body Input true "Datos de la mascota"
// @Success 200 {object} httpresp.Envelope
// @Failure 400 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /mascotas/{id} [put]
func updatePetHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpresp.PathID(r, "id")
		if err != nil {
			res.Err(w, r, err)
			return
		}

		var req petRequest
		if err := httpresp.DecodeJSON(r, &req); err != nil {
			res.Err(w, r, err)
			return
		}

		if _, err := svc.Update(r.Context(), id, req.input()); err != nil {
			res.Err(w, r, err)
			return
		}
		res.Message(w, "Mascota actualizada exitosamente")
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota
// @Description Elimina la mascota; sus características se borran en cascada.
// @Tags mascotas
// @Produce json
// @Param id path int true "ID de la mascota"
// @Success 200 {object} httpresp.Envelope
// @Failure 404 {object} httpresp.Envelope
// @Router /mascotas/{id} [delete]
func deletePetHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
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
		res.Message(w, "Mascota eliminada exitosamente")
	}
}

// petStatsHandler godoc
// @Summary Estadísticas de mascotas
// @Tags mascotas
// @Produce json
// @Success 200 {object} httpresp.Envelope{data=StatsResponse}
// @Router /mascotas/stats/overview [get]
func petStatsHandler(svc *Service, res *httpresp.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			res.Err(w, r, err)
			return
		}
		res.OK(w, ToStatsResponse(st))
	}
}

// ToResponse es exportado para el dashboard de admin.
func ToResponse(p Pet) PetResponse {
	traits := p.Traits
	if traits == nil {
		traits = []string{}
	}
	return PetResponse{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		Age:         p.Age,
		Size:        p.Size,
		Description: p.Description,
		Image:       p.Image,
		Status:      p.Status,
		IntakeAt:    p.IntakeAt,
		AdoptedAt:   p.AdoptedAt,
		AdopterID:   p.AdopterID,
		Traits:      traits,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToStatsResponse(st Stats) StatsResponse {
	counts := func(in []Count) []countResponse {
		out := make([]countResponse, 0, len(in))
		for _, c := range in {
			out = append(out, countResponse{Key: c.Key, Count: c.Count})
		}
		return out
	}

	months := make([]monthCountResponse, 0, len(st.AdoptedByMonth))
	for _, m := range st.AdoptedByMonth {
		months = append(months, monthCountResponse{Month: m.Month, Count: m.Count})
	}

	return StatsResponse{
		Total:            st.Total,
		ByType:           counts(st.ByType),
		ByStatus:         counts(st.ByStatus),
		ByAge:            counts(st.ByAge),
		BySize:           counts(st.BySize),
		AdoptedThisMonth: st.AdoptedThisMonth,
		AdoptedByMonth:   months,
	}
}
