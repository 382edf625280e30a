package entity

import "time"

// EventKind discrimina los eventos de dominio que consume el despachador.
// Variante etiquetada con tabla de handlers explícita: agregar un kind nuevo
// exige registrar su resolver o el Dispatch lo rechaza como evento inválido.
type EventKind string

// Eventos soportados.
const (
	EventIngredientPurchased    EventKind = "ingredient.purchased"
	EventProductionCompleted    EventKind = "production.completed"
	EventOperationalCostChanged EventKind = "operational_cost.changed"
	EventRecipeUpdated          EventKind = "recipe.updated"
	EventScheduledSnapshot      EventKind = "snapshot.scheduled"
)

// WorkflowEvent unidad de trabajo entregada por el bus de eventos externo.
// Este subsistema solo la consume; no la persiste ni publica eventos nuevos.
type WorkflowEvent struct {
	Kind      EventKind
	EntityID  string // ingrediente, receta o costo operacional según Kind
	UserID    string
	Payload   map[string]string
	Timestamp time.Time
}
