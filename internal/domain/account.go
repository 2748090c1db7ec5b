package domain

import "time"

// Account es el registro de autenticacion: identidad, credencial y estado de verificacion.
type Account struct {
	ID              string    `json:"id"`
	LoginName       string    `json:"loginName"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProfileDetails guarda los datos personales asociados 1:1 a una Account.
type ProfileDetails struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	FirstName  string    `json:"firstName"`
	SecondName string    `json:"secondName"`
	Address    string    `json:"address,omitempty"`
	Headline   string    `json:"headline,omitempty"`
	DobDay     *int      `json:"dobDay,omitempty"`
	DobMonth   *int      `json:"dobMonth,omitempty"`
	DobYear    *int      `json:"dobYear,omitempty"`
	PhoneNo    string    `json:"phoneNo,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Notification es un aviso persistido para el usuario, con link relativo dentro de la app.
type Notification struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// VerificationEmail describe el correo de verificacion a enviar; el token se firma al enviarlo.
type VerificationEmail struct {
	AccountID  string `json:"accountId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	SecondName string `json:"secondName"`
}
