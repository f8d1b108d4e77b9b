package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// requestValidator checks requests against the OpenAPI document.
// Requests to paths the document does not describe (metrics, swagger) pass through.
func requestValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// Unknown path or method: the mux answers 404/405.
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
					MultiError:         true,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				if isBodyTooLarge(err) {
					writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
					return
				}
				slog.Warn("Request rejected by OpenAPI validation", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, "request does not match the API schema", validationDetails(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func validationDetails(err error) []string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		details := make([]string, 0, len(multi))
		for _, e := range multi {
			details = append(details, e.Error())
		}
		return details
	}
	return []string{err.Error()}
}
