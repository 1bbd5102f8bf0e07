package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	vmerrors "vmctl/pkg/errors"
	"vmctl/pkg/log"
	"vmctl/pkg/models"
	"vmctl/pkg/ports"
)

// NotFoundDetail is the detail message returned for unknown vm ids.
const NotFoundDetail = "ID not found!"

const maxBodyBytes = 1 << 20

// StartVMRequest represents a vm start request as sent by clients.
type StartVMRequest struct {
	CPUCount  *int    `json:"cpu_count"`
	MemSizeGB *int    `json:"mem_size_gb"`
	Image     *string `json:"image"`
}

// StartVMResponse represents a vm start response.
type StartVMResponse struct {
	ID string `json:"id"`
}

// StopVMResponse represents a vm stop response.
type StopVMResponse struct {
	ID   string        `json:"id"`
	Spec models.VMSpec `json:"spec"`
}

// ListVMsResponse represents a vm list response.
type ListVMsResponse struct {
	VMs []*models.VMRecord `json:"vms"`
}

// ValidationDetail is one entry of a 422 response.
type ValidationDetail struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input any      `json:"input,omitempty"`
}

func missingField(field string) vmerrors.ValidationError {
	return vmerrors.ValidationError{Field: field, Kind: vmerrors.KindMissing, Constraint: "field required"}
}

// StartVM handles vm start requests
func (s *Server) StartVM(w http.ResponseWriter, r *http.Request) {
	input, err := decodeStartRequest(r.Body)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	id, err := s.vms.StartVM(r.Context(), input)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, StartVMResponse{ID: id})
}

// StopVM handles vm stop requests
func (s *Server) StopVM(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.vms.StopVM(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, StopVMResponse{ID: rec.ID, Spec: rec.Spec})
}

// GetVM returns the record for a single vm
func (s *Server) GetVM(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.vms.GetVM(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListVMs returns all vm records
func (s *Server) ListVMs(w http.ResponseWriter, r *http.Request) {
	vms, err := s.vms.ListVMs(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListVMsResponse{VMs: vms})
}

var errTrailingData = errors.New("unexpected data after the JSON object")

// decodeStartRequest reads a start request body. Keys match the wire names
// exactly. Missing and mistyped fields are all reported together, along with
// range and image failures of the fields that did decode.
func decodeStartRequest(body io.Reader) (ports.StartVMInput, error) {
	var input ports.StartVMInput

	fields, err := decodeObject(body)
	if err != nil {
		return input, err
	}

	var errs vmerrors.ValidationErrors

	if ve := intField(fields, models.FieldCPUCount, &input.CPUCount); ve != nil {
		errs = append(errs, *ve)
	}

	if ve := intField(fields, models.FieldMemSizeGB, &input.MemSizeGB); ve != nil {
		errs = append(errs, *ve)
	}

	if ve := stringField(fields, models.FieldImage, &input.Image); ve != nil {
		errs = append(errs, *ve)
	}

	if len(errs) == 0 {
		return input, nil
	}

	if _, err := models.NewVMSpec(input.CPUCount, input.MemSizeGB, input.Image); err != nil {
		list, _ := vmerrors.AsValidation(err)
		for _, ve := range list {
			if !errs.Has(ve.Field) {
				errs = append(errs, ve)
			}
		}
	}

	order := map[string]int{models.FieldCPUCount: 0, models.FieldMemSizeGB: 1, models.FieldImage: 2}
	sort.SliceStable(errs, func(i, j int) bool { return order[errs[i].Field] < order[errs[j].Field] })

	return input, errs
}

// decodeObject decodes body as a single JSON object and nothing else.
func decodeObject(body io.Reader) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, jsonInvalid(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, jsonInvalid(errTrailingData)
	}

	return fields, nil
}

func jsonInvalid(err error) vmerrors.ValidationError {
	return vmerrors.ValidationError{
		Kind:       vmerrors.KindJSONInvalid,
		Constraint: fmt.Sprintf("JSON decode error: %v", err),
	}
}

// rawValue decodes raw keeping numbers as json.Number so they are echoed
// back unchanged.
func rawValue(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	_ = dec.Decode(&v)

	return v
}

// intField accepts JSON integers, and floats without a fractional part.
func intField(fields map[string]json.RawMessage, name string, dst *int) *vmerrors.ValidationError {
	raw, ok := fields[name]
	if !ok {
		ve := missingField(name)
		return &ve
	}

	value := rawValue(raw)

	ve := &vmerrors.ValidationError{
		Field:      name,
		Kind:       vmerrors.KindIntType,
		Constraint: "must be a valid integer",
		Value:      value,
	}

	num, ok := value.(json.Number)
	if !ok {
		return ve
	}

	if i, err := num.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		*dst = int(i)
		return nil
	}

	f, err := num.Float64()
	if err != nil || f < math.MinInt || f >= math.MaxInt {
		return ve
	}

	if f != math.Trunc(f) {
		ve.Constraint = "must be a valid integer, got a number with a fractional part"
		return ve
	}

	*dst = int(f)

	return nil
}

func stringField(fields map[string]json.RawMessage, name string, dst *string) *vmerrors.ValidationError {
	raw, ok := fields[name]
	if !ok {
		ve := missingField(name)
		return &ve
	}

	value := rawValue(raw)

	str, ok := value.(string)
	if !ok {
		return &vmerrors.ValidationError{
			Field:      name,
			Kind:       vmerrors.KindStringType,
			Constraint: "must be a valid string",
			Value:      value,
		}
	}

	*dst = str

	return nil
}

// writeError maps err onto a response. notFoundCode is the status used for
// unknown vm ids, which differs between stop and get.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundCode int) {
	if list, ok := vmerrors.AsValidation(err); ok {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetails("body", list))
		return
	}

	if vmerrors.IsNotFound(err) {
		writeDetail(w, notFoundCode, NotFoundDetail)
		return
	}

	if errors.Is(err, vmerrors.ErrVMIDRequired) {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	log.GetLogger(r.Context()).WithError(err).Error("request failed")
	writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
}

func validationDetails(source string, list vmerrors.ValidationErrors) []ValidationDetail {
	details := make([]ValidationDetail, 0, len(list))

	for _, ve := range list {
		loc := []string{source}
		if ve.Field != "" {
			loc = append(loc, ve.Field)
		}

		details = append(details, ValidationDetail{
			Type:  ve.Kind,
			Loc:   loc,
			Msg:   ve.Constraint,
			Input: ve.Value,
		})
	}

	return details
}
