package session

import "github.com/openkcm/storefront-client/pkg/api"

type State int

const (
	Anonymous State = iota
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido,omitempty"`
	Phone     string `json:"telefono,omitempty"`
	BirthDate string `json:"fecha_nacimiento,omitempty"`
	Gender    string `json:"genero,omitempty"`
}

// Session is the persisted authentication state of a client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *api.User
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginData struct {
	tokens
	User api.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type profileData struct {
	User api.User `json:"usuario"`
}
