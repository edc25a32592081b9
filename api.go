package wikibase

import (
	"github.com/entitykit/wikibase/internal/wire"
)

// Response envelopes for the action API calls the client makes. Entity
// documents themselves decode through internal/wire.

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type getEntitiesResponse struct {
	Error    *apiError              `json:"error"`
	Entities map[string]wire.Entity `json:"entities"`
}

type tokenResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Tokens struct {
			CSRFToken string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

type editResponse struct {
	Error   *apiError   `json:"error"`
	Success int         `json:"success"`
	Entity  wire.Entity `json:"entity"`
}
