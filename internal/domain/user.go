package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"` // Hashed password
	Role      UserRole  `json:"role"`
	Status    string    `json:"status"` // Active, Inactive, Blocked
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Overview is the admin dashboard summary
type Overview struct {
	TotalUsers         int64     `json:"total_users"`
	TotalStations      int64     `json:"total_stations"`
	TotalPorts         int64     `json:"total_ports"`
	AvailablePorts     int64     `json:"available_ports"`
	ActiveReservations int64     `json:"active_reservations"`
	TripsPlanned       int64     `json:"trips_planned"`
	GeneratedAt        time.Time `json:"generated_at"`
}
