package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/middleware"
)

// Mensagens por código de negócio; o código segue no campo error_code
// para o front decidir o que mostrar.
var businessMessages = map[string]string{
	httperr.CodeInvalidService:    "Serviço inválido ou inativo.",
	httperr.CodePastBooking:       "Não é possível agendar em data ou horário passado.",
	httperr.CodeNoStaffAvailable:  "Nenhum barbeiro disponível no momento.",
	httperr.CodeMissingGuestInfo:  "Nome, sobrenome, e-mail e telefone são obrigatórios.",
	httperr.CodeSlotTaken:         "Este horário acabou de ser reservado. Escolha outro.",
	httperr.CodeIllegalTransition: "Transição de status não permitida.",
	httperr.CodeAlreadyFinalized:  "Este agendamento já foi finalizado.",
	httperr.CodeAppointmentInPast: "Este agendamento já passou.",
	httperr.CodeNotFound:          "Registro não encontrado.",
	httperr.CodeValidationError:   "Dados inválidos.",
}

var businessStatus = map[string]int{
	httperr.CodeInvalidService:    http.StatusBadRequest,
	httperr.CodePastBooking:       http.StatusBadRequest,
	httperr.CodeNoStaffAvailable:  http.StatusConflict,
	httperr.CodeMissingGuestInfo:  http.StatusBadRequest,
	httperr.CodeSlotTaken:         http.StatusConflict,
	httperr.CodeIllegalTransition: http.StatusConflict,
	httperr.CodeAlreadyFinalized:  http.StatusConflict,
	httperr.CodeAppointmentInPast: http.StatusBadRequest,
	httperr.CodeNotFound:          http.StatusNotFound,
	httperr.CodeValidationError:   http.StatusBadRequest,
}

// writeError traduz erros de negócio em resposta HTTP; qualquer outro
// erro vira 500 genérico (detalhe fica no log, não no cliente).
func writeError(c *gin.Context, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		status, found := businessStatus[code]
		if !found {
			status = http.StatusBadRequest
		}
		httperr.Write(c, status, code, businessMessages[code])
		return
	}

	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, httperr.CodeValidationError, "Identificador inválido.")
		return 0, false
	}
	return uint(n), true
}
