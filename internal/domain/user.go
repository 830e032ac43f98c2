package domain

import "time"

// MonitoredTrait es un rasgo que el personal de la casa observa en un residente.
// Solo se usa para personalizar el prompt del companion de voz.
type MonitoredTrait struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// User representa a un residente de la casa de vivienda asistida.
// Los contadores de racha son propiedad exclusiva del flujo de creacion de journals.
type User struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Avatar        string           `json:"avatar"`
	HouseID       string           `json:"houseId"`
	MovedIn       time.Time        `json:"movedIn"`
	CurrentStreak int              `json:"currentStreak"`
	TotalJournals int              `json:"totalJournals"`
	Chores        []string         `json:"chores"`
	Traits        []MonitoredTrait `json:"traits"`
	CreatedAt     time.Time        `json:"createdAt"`
}
