package agent

import (
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"cloudcost/core/types"
	"cloudcost/internal/logging"
)

// CreateTicket opens a stub remediation ticket. The ID is derived from
// the title so repeated submissions of the same anomaly collapse onto
// the same ticket number.
func CreateTicket(title, body string) types.Ticket {
	h := fnv.New32a()
	h.Write([]byte(title))

	ticket := types.Ticket{
		TicketID:  fmt.Sprintf("TCK-%05d", h.Sum32()%100000),
		Title:     title,
		Body:      body,
		CreatedAt: float64(time.Now().UnixNano()) / 1e9,
	}
	logging.Info("ticket created",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("title", ticket.Title))
	return ticket
}
