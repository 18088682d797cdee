package graph

import (
	"encoding/json"
	"net/http"

	"lireddit/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// Request 是标准的 GraphQL POST 请求体
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func errorBody(message string) gin.H {
	return gin.H{"errors": []gin.H{{"message": message}}}
}

// Handler executes GraphQL requests. It expects middleware.Sessions and
// middleware.LoadUser to have run. When limiter is not nil, mutations are
// throttled per user (per IP for anonymous callers); queries never are.
func Handler(schema graphql.Schema, limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindRequest(c)
		if !ok {
			return
		}

		if operationType(req.Query, req.OperationName) == ast.OperationTypeMutation {
			// GET 不允许修改数据
			if c.Request.Method == http.MethodGet {
				c.JSON(http.StatusMethodNotAllowed, errorBody("mutations must be sent with POST"))
				return
			}
			if limiter != nil && !limiter.Allow(middleware.RateLimitKey(c)) {
				middleware.TooManyRequests(c)
				return
			}
		}

		rc := &RequestContext{
			UserID:  middleware.CurrentUserID(c),
			Session: sessions.Default(c),
		}
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        WithRequestContext(c.Request.Context(), rc),
		})
		c.JSON(http.StatusOK, result)
	}
}

// bindRequest reads the request from the JSON body, or from the query
// string for GET. It writes the 400 itself.
func bindRequest(c *gin.Context) (Request, bool) {
	var req Request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				c.JSON(http.StatusBadRequest, errorBody("variables must be a JSON object"))
				return req, false
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return req, false
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, errorBody("must provide query string"))
		return req, false
	}
	return req, true
}

// operationType returns the type of the operation graphql.Do will run, or ""
// when the document does not parse or names no such operation. graphql.Do
// reports those errors itself.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	if operationName == "" {
		if len(ops) == 1 {
			return ops[0].Operation
		}
		return ""
	}
	for _, op := range ops {
		if op.Name != nil && op.Name.Value == operationName {
			return op.Operation
		}
	}
	return ""
}
