package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

var messages = map[string]string{
	"invalid_request": "Dados inválidos.",
	"invalid_date":    "Data inválida.",
	"missing_fields":  "Preencha todos os campos obrigatórios.",
	"unknown_service": "Serviço inválido.",
	"unknown_barber":  "Barbeiro inválido.",
	"invalid_time":    "Horário inválido.",
	"past_time":       "Não é possível agendar um horário que já passou.",
	"closed_day":      "A barbearia não abre neste dia.",

	"outside_special_period":    "Este horário só está disponível no período especial.",
	"visagism_barber_only":      "Os serviços de visagismo são feitos apenas pelo barbeiro de visagismo.",
	"quick_service_combination": "O Pezim não pode ser combinado com este serviço no mesmo agendamento.",

	"slot_unavailable":           "Horário indisponível. Escolha outro horário ou barbeiro.",
	"no_barber_available":        "Nenhum barbeiro disponível neste horário.",
	"barber_on_break":            "O barbeiro está em horário de almoço.",
	"quick_service_incompatible": "Este horário já tem um Pezim e não aceita o serviço escolhido.",
	"combo_followup_unavailable": "Corte + Barba ocupa dois horários e o seguinte não está livre.",
	"combo_after_closing":        "Corte + Barba ocupa dois horários e o seguinte passa do fechamento.",

	"not_found":      "Agendamento não encontrado.",
	"phone_mismatch": "O telefone não confere com o do agendamento.",

	"storage_unavailable": "Serviço temporariamente indisponível. Tente novamente em instantes.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "Não foi possível concluir a operação."
}

// respondError writes a business error with its status, or a 500 for
// anything unexpected.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	code := httperr.CodeOf(err)
	status := httperr.StatusFor(err)

	if code == "" {
		log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "internal_error", messageFor(""))
		return
	}
	if status >= 500 {
		log.Error("storage failure", zap.String("path", c.FullPath()), zap.Error(err))
	}
	httperr.Write(c, status, code, messageFor(code))
}
