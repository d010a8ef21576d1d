// Package register implementa o handler HTTP de cadastro de alunos,
// encaminhando a operação ao serviço de autenticação via gRPC.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Request — dados de entrada do cadastro.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service descreve o cliente do serviço de autenticação.
type Service interface {
	Register(ctx context.Context, email, username, password string) (*authpb.RegisterResponse, error)
}

// Handler atende o cadastro de alunos.
type Handler struct {
	log        *slog.Logger
	authClient Service
	validate   *validator.Validate
}

// New cria um Handler.
func New(log *slog.Logger, authClient Service) *Handler {
	return &Handler{
		log:        log,
		authClient: authClient,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Cadastro de aluno
// @Description Cria o registro padrão do aluno (trial). A operação é idempotente por username.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Dados do cadastro"
// @Success 200 {object} map[string]any "Cadastro efetuado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	resp, err := h.authClient.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("registration ensured", slog.String("username", req.Username), slog.Bool("created", resp.Created))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": req.Username,
		"useruid":  resp.Useruid,
		"created":  resp.Created,
	}))
}
