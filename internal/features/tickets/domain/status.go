package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned for values outside the seven ticket statuses.
var ErrInvalidStatus = errors.New("invalid ticket status")

// Status is the lifecycle state of a repair ticket.
type Status string

const (
	// StatusReceived means intake is complete and the device awaits diagnosis.
	StatusReceived Status = "received"
	// StatusDiagnosing means a technician is evaluating the device.
	StatusDiagnosing Status = "diagnosing"
	// StatusAwaitingPart means work is blocked on a part from inventory or a supplier.
	StatusAwaitingPart Status = "awaiting_part"
	// StatusInProgress means the repair is being carried out.
	StatusInProgress Status = "in_progress"
	// StatusReady means the device is repaired and waiting for pickup.
	StatusReady Status = "ready"
	// StatusDelivered means the customer collected the device. Terminal.
	StatusDelivered Status = "delivered"
	// StatusRejected means the customer declined the quote. Terminal.
	StatusRejected Status = "rejected"
)

// StatusInfo is the presentation metadata of a status.
type StatusInfo struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Terminal    bool   `json:"terminal"`
	// Step is the position on the main repair path; 0 for rejected, which is off-path.
	Step int `json:"step"`
}

var statusTable = []StatusInfo{
	{Status: StatusReceived, Label: "Recibido", Description: "Recibimos tu equipo y está en espera de diagnóstico.", Color: "blue", Icon: "inbox", Step: 1},
	{Status: StatusDiagnosing, Label: "En Diagnóstico", Description: "Un técnico está evaluando tu equipo.", Color: "yellow", Icon: "search", Step: 2},
	{Status: StatusAwaitingPart, Label: "Esperando Repuesto", Description: "Estamos esperando un repuesto para continuar con la reparación.", Color: "orange", Icon: "package", Step: 3},
	{Status: StatusInProgress, Label: "En Reparación", Description: "Tu equipo está siendo reparado.", Color: "purple", Icon: "wrench", Step: 4},
	{Status: StatusReady, Label: "¡Listo para Retirar!", Description: "Tu equipo está reparado y listo para que lo retires.", Color: "green", Icon: "check-circle", Step: 5},
	{Status: StatusDelivered, Label: "Entregado", Description: "Retiraste tu equipo. ¡Gracias por confiar en nosotros!", Color: "gray", Icon: "handshake", Terminal: true, Step: 6},
	{Status: StatusRejected, Label: "Presupuesto Rechazado", Description: "La reparación no se realizó porque el presupuesto fue rechazado.", Color: "red", Icon: "x-circle", Terminal: true},
}

var statusIndex = func() map[Status]StatusInfo {
	m := make(map[Status]StatusInfo, len(statusTable))
	for _, info := range statusTable {
		m[info.Status] = info
	}
	return m
}()

// Statuses returns the metadata of every status, main path first and rejected last.
func Statuses() []StatusInfo {
	out := make([]StatusInfo, len(statusTable))
	copy(out, statusTable)
	return out
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the seven statuses.
func (s Status) Valid() bool {
	_, ok := statusIndex[s]
	return ok
}

// Info returns the metadata of s. Unknown statuses yield a zero StatusInfo.
func (s Status) Info() StatusInfo {
	return statusIndex[s]
}

// IsTerminal reports whether no further work happens after s.
func (s Status) IsTerminal() bool {
	return statusIndex[s].Terminal
}

// Priority orders tickets in the workshop queue. It does not affect the lifecycle.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// ErrInvalidPriority is returned for values other than normal and urgent.
var ErrInvalidPriority = errors.New("invalid ticket priority")

// ParsePriority converts a raw value into a Priority; empty means normal.
func ParsePriority(raw string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PriorityNormal, nil
	case PriorityNormal, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}
