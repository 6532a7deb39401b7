package models

import (
	"time"
)

// User es el dueño de las transacciones. La aplicación web opera siempre
// sobre el primer usuario registrado (usuario por defecto).
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // El "-" evita que se serialice en JSON
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
