package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"collabhub/internal/common"
	"collabhub/internal/middleware"
)

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes GraphQL operations over POST. Authentication runs once per
// request through the same gateway as the REST middleware; resolvers decide
// whether identity is required.
type Handler struct {
	schema        graphql.Schema
	authenticator *middleware.Authenticator
}

func NewHandler(schema graphql.Schema, authenticator *middleware.Authenticator) *Handler {
	return &Handler{schema: schema, authenticator: authenticator}
}

func (h *Handler) Serve(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest("Invalid GraphQL request body")
	}
	if req.Query == "" {
		return common.BadRequest("Missing GraphQL query")
	}

	ctx := c.Request().Context()
	token := middleware.BearerFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
	if token != "" {
		ctx = WithAuthResult(ctx, h.authenticator.Authenticate(ctx, token))
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	// Failed operations carry the correlation id the same way REST bodies do.
	if requestID := common.GetRequestIDFromContext(c.Request().Context()); requestID != "" {
		for i := range result.Errors {
			if result.Errors[i].Extensions == nil {
				result.Errors[i].Extensions = make(map[string]interface{})
			}
			result.Errors[i].Extensions["request_id"] = requestID
		}
	}

	return c.JSON(http.StatusOK, result)
}
