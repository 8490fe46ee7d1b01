// Package people provides the people toolset
package people

import (
	"context"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
	"github.com/AltairaLabs/docspace-mcp/internal/types"
)

// Handler implements the people toolset
type Handler struct {
	api types.PeopleAPI
}

// NewHandler creates a new people handler
func NewHandler(api types.PeopleAPI) *Handler {
	return &Handler{api: api}
}

type listPeopleInput struct {
	Filter     string `json:"filter,omitempty" jsonschema:"text to filter users by name or email"`
	Count      int    `json:"count,omitempty" jsonschema:"the maximum number of users to return"`
	StartIndex int    `json:"startIndex,omitempty" jsonschema:"the number of users to skip"`
}

// PeopleList is the result of get_all_people
type PeopleList struct {
	People []docspace.User `json:"people"`
}

// Toolset returns the people toolset
func (h *Handler) Toolset() tools.Toolset {
	return tools.Toolset{
		Name:        config.ToolsetPeople,
		Description: "Operations for working with users.",
		Tools: []tools.Tool{
			tools.Must(tools.New(config.ToolGetAllPeople,
				"List the users of the portal.",
				h.getAllPeople, tools.WithOutput[PeopleList](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolGetCurrentUser,
				"Get the user the server is authenticated as.",
				h.getCurrentUser, tools.WithOutput[docspace.User](), tools.ReadOnly())),
		},
	}
}

func (h *Handler) getAllPeople(ctx context.Context, in listPeopleInput) (any, error) {
	users, _, err := h.api.ListPeople(ctx, in.Filter, in.Count, in.StartIndex)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []docspace.User{}
	}
	return PeopleList{People: users}, nil
}

func (h *Handler) getCurrentUser(ctx context.Context, _ struct{}) (any, error) {
	u, _, err := h.api.GetSelf(ctx)
	if err != nil {
		return nil, err
	}
	return u, nil
}
