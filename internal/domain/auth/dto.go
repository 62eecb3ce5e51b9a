package auth

// CredentialsRequest is the body of signup and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupResponse confirms a pending signup
type SignupResponse struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// MeResponse describes the current session
type MeResponse struct {
	Username   string `json:"username"`
	Role       Kind   `json:"role"`
	Bundesland string `json:"bundesland,omitempty"`
	Rank       string `json:"rank,omitempty"`
}

func meResponse(id Identity) MeResponse {
	return MeResponse{
		Username:   id.Username,
		Role:       id.Kind,
		Bundesland: id.Bundesland,
		Rank:       id.Rank(),
	}
}
