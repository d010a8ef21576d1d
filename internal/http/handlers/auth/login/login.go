// Package login implementa o handler HTTP de autenticação de alunos.
//
// Decodifica e valida as credenciais, delega o login ao serviço de
// autenticação via gRPC e devolve o JWT em caso de sucesso.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	authpb "github.com/tsgomes9/coordenada-concursos-sub001/internal/grpc/gen"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/http/response"
	"github.com/tsgomes9/coordenada-concursos-sub001/internal/lib/sl"
)

// Request — credenciais de entrada.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service descreve o cliente do serviço de autenticação.
type Service interface {
	Login(ctx context.Context, username, password string) (*authpb.LoginResponse, error)
}

// Handler atende a autenticação de alunos.
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
// @Summary Autenticação de aluno
// @Description Autentica por username e senha e devolve o JWT de acesso.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Credenciais do aluno"
// @Success 200 {object} map[string]any "Autenticado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Erro de validação"
// @Failure 401 {object} response.ErrorResponse "Conta inexistente ou senha errada"
// @Failure 500 {object} response.ErrorResponse "Erro interno"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	grpcResp, err := h.authClient.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		// A resposta diz ao aluno qual foi o caso: conta inexistente ou senha errada.
		switch status.Code(err) {
		case codes.NotFound:
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unknown account"))
		case codes.Unauthenticated:
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("wrong password"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":    grpcResp.Token,
		"role":     grpcResp.Role,
		"username": req.Username,
	}))
}
