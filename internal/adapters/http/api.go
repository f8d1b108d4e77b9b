package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openapiSpec []byte

// FormatParam is the optional ?format= query parameter.
type FormatParam = string

// PostConvertParams defines parameters for PostConvert.
type PostConvertParams struct {
	Format *FormatParam `form:"format,omitempty" json:"format,omitempty"`
}

// ConvertDefinitionParams defines parameters for ConvertDefinition.
type ConvertDefinitionParams struct {
	Format *FormatParam `form:"format,omitempty" json:"format,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
	// (POST /convert)
	PostConvert(w http.ResponseWriter, r *http.Request, params PostConvertParams)
	// (GET /definitions)
	ListDefinitions(w http.ResponseWriter, r *http.Request)
	// (GET /definitions/{id}/dfa)
	ConvertDefinition(w http.ResponseWriter, r *http.Request, id string, params ConvertDefinitionParams)
	// (GET /results/{id})
	GetResult(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /results/{id})
	DeleteResult(w http.ResponseWriter, r *http.Request, id string)
}

// ServerInterfaceWrapper converts requests to typed parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

func (siw *ServerInterfaceWrapper) GetInfo(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetInfo(w, r)
}

func (siw *ServerInterfaceWrapper) PostConvert(w http.ResponseWriter, r *http.Request) {
	var params PostConvertParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "format", Err: err})
		return
	}
	siw.Handler.PostConvert(w, r, params)
}

func (siw *ServerInterfaceWrapper) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListDefinitions(w, r)
}

func (siw *ServerInterfaceWrapper) ConvertDefinition(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	var params ConvertDefinitionParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "format", Err: err})
		return
	}
	siw.Handler.ConvertDefinition(w, r, id, params)
}

func (siw *ServerInterfaceWrapper) GetResult(w http.ResponseWriter, r *http.Request) {
	if id, ok := siw.bindID(w, r); ok {
		siw.Handler.GetResult(w, r, id)
	}
}

func (siw *ServerInterfaceWrapper) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if id, ok := siw.bindID(w, r); ok {
		siw.Handler.DeleteResult(w, r, id)
	}
}

func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// HandlerFromMux registers the API routes on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
		},
	}

	r.Get("/health", wrapper.GetHealth)
	r.Get("/info", wrapper.GetInfo)
	r.Post("/convert", wrapper.PostConvert)
	r.Get("/definitions", wrapper.ListDefinitions)
	r.Get("/definitions/{id}/dfa", wrapper.ConvertDefinition)
	r.Get("/results/{id}", wrapper.GetResult)
	r.Delete("/results/{id}", wrapper.DeleteResult)

	return r
}

// rawSpec returns the embedded OpenAPI document.
func rawSpec() ([]byte, error) {
	return openapiSpec, nil
}

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		swaggerDoc, swaggerErr = loader.LoadFromData(openapiSpec)
		if swaggerErr == nil {
			swaggerErr = swaggerDoc.Validate(loader.Context)
		}
	})
	return swaggerDoc, swaggerErr
}
