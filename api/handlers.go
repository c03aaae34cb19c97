/*
handlers.go - HTTP API handlers for the advisor CRM

PURPOSE:
  Exposes the CRM and the commission calculation core via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clients:
    GET    /api/clients                   List clients
    POST   /api/clients                   Create client
    GET    /api/clients/{id}              Get client
    PUT    /api/clients/{id}              Update client
    DELETE /api/clients/{id}              Delete client (cascades to policies)
    GET    /api/clients/{id}/policies     Client's policies
    GET    /api/clients/{id}/tasks        Client's tasks

  Policies:
    GET    /api/policies                  List policies
    POST   /api/policies                  Create policy
    POST   /api/policies/from-global      Create policy seeded from a template
    POST   /api/policies/derive           Run form derivation rules
    GET    /api/policies/{id}             Get policy
    PUT    /api/policies/{id}             Partial update
    DELETE /api/policies/{id}             Delete policy
    GET    /api/policies/{id}/commission  Calculator outputs
    GET    /api/policies/{id}/renewal     Date projector outputs

  Global policies, tasks, dashboard, pipeline, settings, scenarios:
    see server.go for the route table.

WRITE FLOW:
  1. Parse and validate the request (structural errors -> 400)
  2. Merge into the domain record
  3. Run the derivation rules (policy writes only)
  4. Persist; soft field errors ride along in the response, they never
     block the write

ERROR HANDLING:
  - 400: Malformed input (bad dates, missing required fields)
  - 404: Resource not found
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store crm.Store

	// Now is the injectable clock. Tests pin it; production uses time.Now.
	Now func() time.Time
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store crm.Store) *Handler {
	return &Handler{
		Store: store,
		Now:   time.Now,
	}
}

func (h *Handler) today() time.Time {
	return h.Now().UTC()
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}
	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient creates a client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}
	stage := crm.PipelineStage(req.PipelineStage)
	if req.PipelineStage == "" {
		stage = crm.StageLead
	} else if !stage.Known() {
		writeError(w, http.StatusBadRequest, "Unknown pipeline stage", nil)
		return
	}

	now := h.today()
	client := &crm.Client{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PipelineStage: stage,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.SaveClient(r.Context(), client); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(client))
}

// GetClient returns one client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// UpdateClient applies a partial update to a client.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name != "" {
		client.Name = req.Name
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Notes != "" {
		client.Notes = req.Notes
	}
	if req.PipelineStage != "" {
		stage := crm.PipelineStage(req.PipelineStage)
		if !stage.Known() {
			writeError(w, http.StatusBadRequest, "Unknown pipeline stage", nil)
			return
		}
		client.PipelineStage = stage
	}
	client.UpdatedAt = h.today()

	if err := h.Store.SaveClient(r.Context(), client); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// DeleteClient removes a client and, by cascade, its policies and tasks.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListClientPolicies returns all policies of one client.
func (h *Handler) ListClientPolicies(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetClient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	policies, err := h.Store.ListPoliciesByClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}
	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListClientTasks returns all tasks of one client.
func (h *Handler) ListClientTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetClient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	tasks, err := h.Store.ListTasksByClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// policyResponse pairs a saved policy with any soft field errors that the
// derivation pass raised. Field errors never block the write.
type policyResponse struct {
	Policy PolicyDTO         `json:"policy"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ListPolicies returns all policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}
	dtos := make([]PolicyDTO, len(policies))
	for i, p := range policies {
		dtos[i] = toPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy creates a freestanding policy.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req SavePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.today()
	p := &policy.Policy{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.mergePolicy(p, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy fields", err)
		return
	}
	if p.ClientID == "" {
		writeError(w, http.StatusBadRequest, "client_id is required", policy.ErrMissingClientID)
		return
	}
	if _, err := h.Store.GetClient(r.Context(), p.ClientID); err != nil {
		writeStoreError(w, err)
		return
	}
	if p.PolicyName == "" || p.PolicyType == "" {
		writeError(w, http.StatusBadRequest, "policy_name and policy_type are required", nil)
		return
	}
	if !p.PaymentStructureType.Known() {
		writeError(w, http.StatusBadRequest, "Unknown payment_structure_type", nil)
		return
	}

	fieldErrs := policy.DeriveInto(p)
	if err := h.Store.SavePolicy(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, policyResponse{Policy: toPolicyDTO(p), Errors: fieldErrs})
}

// CreatePolicyFromGlobal seeds a policy from a template, applies the
// caller's per-client entries, and persists.
func (h *Handler) CreatePolicyFromGlobal(w http.ResponseWriter, r *http.Request) {
	var req CreateFromGlobalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ClientID == "" || req.GlobalPolicyID == "" {
		writeError(w, http.StatusBadRequest, "client_id and global_policy_id are required", nil)
		return
	}
	if _, err := h.Store.GetClient(r.Context(), req.ClientID); err != nil {
		writeStoreError(w, err)
		return
	}
	tmpl, err := h.Store.GetGlobalPolicy(r.Context(), req.GlobalPolicyID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := h.today()
	p := policy.NewPolicyFromGlobal(tmpl, req.ClientID, now)
	p.ID = uuid.NewString()
	p.PolicyNumber = req.PolicyNumber

	if req.Premium != nil {
		p.Premium = policy.NewAmount(*req.Premium)
		p.FirstYearCommission = policy.FirstYearCommission(p.Premium, p.CommissionRate)
	}
	if req.Value != nil {
		p.Value = policy.NewAmount(*req.Value)
	}
	if req.StartDate != nil {
		if p.StartDate, err = parseDate(req.StartDate, "start_date"); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}
	if req.EndDate != nil {
		if p.EndDate, err = parseDate(req.EndDate, "end_date"); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	fieldErrs := policy.DeriveInto(p)
	if err := h.Store.SavePolicy(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, policyResponse{Policy: toPolicyDTO(p), Errors: fieldErrs})
}

// GetPolicy returns one policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyDTO(p))
}

// UpdatePolicy applies a partial update, re-derives the dependent fields,
// and persists. Fields absent from the request body are left unchanged.
func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req SavePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.mergePolicy(p, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy fields", err)
		return
	}
	if req.ClientID != nil {
		if _, err := h.Store.GetClient(r.Context(), p.ClientID); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	if !p.PaymentStructureType.Known() {
		writeError(w, http.StatusBadRequest, "Unknown payment_structure_type", nil)
		return
	}
	p.UpdatedAt = h.today()

	fieldErrs := policy.DeriveInto(p)
	if err := h.Store.SavePolicy(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policyResponse{Policy: toPolicyDTO(p), Errors: fieldErrs})
}

// mergePolicy copies present request fields onto the record. Structural
// problems (bad dates, negative money) error out before anything mutates
// the stored record... almost: the caller holds a fresh copy, so a partial
// merge is discarded on error anyway.
func (h *Handler) mergePolicy(p *policy.Policy, req *SavePolicyRequest) error {
	if req.Premium != nil && *req.Premium < 0 {
		return errors.New("premium cannot be negative")
	}
	if req.Value != nil && *req.Value < 0 {
		return errors.New("value cannot be negative")
	}
	if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 100) {
		return errors.New("commission_rate must be between 0 and 100")
	}
	if req.PolicyDuration != nil && (*req.PolicyDuration < 1 || *req.PolicyDuration > 30) {
		return errors.New("policy_duration must be between 1 and 30 years")
	}

	if req.ClientID != nil {
		p.ClientID = *req.ClientID
	}
	if req.PolicyName != nil {
		p.PolicyName = *req.PolicyName
	}
	if req.PolicyType != nil {
		p.PolicyType = *req.PolicyType
	}
	if req.Provider != nil {
		p.Provider = *req.Provider
	}
	if req.PolicyNumber != nil {
		p.PolicyNumber = *req.PolicyNumber
	}
	if req.Premium != nil {
		p.Premium = policy.NewAmount(*req.Premium)
	}
	if req.Value != nil {
		p.Value = policy.NewAmount(*req.Value)
	}
	if req.PaymentStructureType != nil {
		p.PaymentStructureType = policy.PaymentStructure(*req.PaymentStructureType)
	}
	if req.CommissionRate != nil {
		p.CommissionRate = policy.NewAmount(*req.CommissionRate)
	}
	if req.FirstYearCommission != nil {
		p.FirstYearCommission = policy.NewAmount(*req.FirstYearCommission)
	}
	if req.PolicyDuration != nil {
		p.PolicyDuration = req.PolicyDuration
	}
	if req.CommissionDuration != nil {
		p.CommissionDuration = req.CommissionDuration
	}
	if req.Status != nil {
		st := policy.Status(*req.Status)
		p.Status = &st
	}
	if req.GlobalPolicyID != nil {
		p.GlobalPolicyID = req.GlobalPolicyID
	}

	var err error
	if req.StartDate != nil {
		if p.StartDate, err = parseDate(req.StartDate, "start_date"); err != nil {
			return err
		}
	}
	if req.EndDate != nil {
		if p.EndDate, err = parseDate(req.EndDate, "end_date"); err != nil {
			return err
		}
	}
	return nil
}

// DeletePolicy removes a policy. The template it was seeded from is never
// touched.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePolicy(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPolicyCommission returns the calculator outputs for one policy.
func (h *Handler) GetPolicyCommission(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	total := policy.TotalCommission(p.Premium, p.CommissionRate)
	expected, _ := policy.TotalExpectedCommission(p).Float64()
	dto := CommissionDTO{
		TotalCommission:         total.FloatPtr(),
		FirstYearCommission:     p.FirstYearCommission.FloatPtr(),
		AnnualOngoingCommission: p.AnnualOngoingCommission.FloatPtr(),
		TotalExpectedCommission: expected,
		PremiumToValueRatio:     policy.PremiumToValueRatio(p).FloatPtr(),
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetPolicyRenewal returns the date projector outputs for one policy.
func (h *Handler) GetPolicyRenewal(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	today := h.today()
	dto := RenewalDTO{
		NextRenewalDate:        dateString(policy.NextRenewalDate(p, today)),
		DaysUntilRenewal:       policy.DaysUntilRenewal(p, today),
		RenewingSoon:           policy.IsRenewingSoon(p, today, settings.RenewalLeadDays),
		PolicyAgeYears:         policy.PolicyAge(p, today),
		CommissionMaturityDate: dateString(policy.CommissionMaturityDate(p)),
	}
	writeJSON(w, http.StatusOK, dto)
}

// DerivePolicyFields runs the form derivation rules on the submitted form
// snapshot and returns the patch plus field errors. Pure: nothing is stored.
func (h *Handler) DerivePolicyFields(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	values, err := req.toFormValues()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form values", err)
		return
	}
	writeJSON(w, http.StatusOK, toDeriveResponse(policy.Derive(values)))
}

// =============================================================================
// GLOBAL POLICY HANDLERS
// =============================================================================

// ListGlobalPolicies returns the template catalog.
func (h *Handler) ListGlobalPolicies(w http.ResponseWriter, r *http.Request) {
	globals, err := h.Store.ListGlobalPolicies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list global policies", err)
		return
	}
	dtos := make([]GlobalPolicyDTO, len(globals))
	for i, g := range globals {
		dtos[i] = toGlobalPolicyDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGlobalPolicy adds a template to the catalog.
func (h *Handler) CreateGlobalPolicy(w http.ResponseWriter, r *http.Request) {
	g, err := h.decodeGlobalPolicy(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid global policy", err)
		return
	}
	g.ID = uuid.NewString()
	now := h.today()
	g.CreatedAt, g.UpdatedAt = now, now

	if err := h.Store.SaveGlobalPolicy(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save global policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGlobalPolicyDTO(g))
}

// GetGlobalPolicy returns one template.
func (h *Handler) GetGlobalPolicy(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.GetGlobalPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGlobalPolicyDTO(g))
}

// UpdateGlobalPolicy replaces a template's fields. Policies previously
// seeded from it are untouched.
func (h *Handler) UpdateGlobalPolicy(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Store.GetGlobalPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	g, err := h.decodeGlobalPolicy(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid global policy", err)
		return
	}
	g.ID = existing.ID
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = h.today()

	if err := h.Store.SaveGlobalPolicy(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save global policy", err)
		return
	}
	writeJSON(w, http.StatusOK, toGlobalPolicyDTO(g))
}

func (h *Handler) decodeGlobalPolicy(r *http.Request) (*policy.GlobalPolicy, error) {
	var req SaveGlobalPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.PolicyName == "" || req.PolicyType == "" {
		return nil, errors.New("policy_name and policy_type are required")
	}
	structure := policy.PaymentStructure(req.PaymentStructureType)
	if !structure.Known() {
		return nil, errors.New("unknown payment_structure_type")
	}

	g := &policy.GlobalPolicy{
		PolicyName:              req.PolicyName,
		PolicyType:              req.PolicyType,
		Provider:                req.Provider,
		PaymentStructureType:    structure,
		Premium:                 amountFromPtr(req.Premium),
		Value:                   amountFromPtr(req.Value),
		FirstYearCommissionRate: amountFromPtr(req.FirstYearCommissionRate),
		OngoingCommissionRate:   amountFromPtr(req.OngoingCommissionRate),
		PolicyDuration:          req.PolicyDuration,
		CommissionDuration:      req.CommissionDuration,
	}
	var err error
	if g.StartDate, err = parseDate(req.StartDate, "start_date"); err != nil {
		return nil, err
	}
	if g.EndDate, err = parseDate(req.EndDate, "end_date"); err != nil {
		return nil, err
	}
	if req.Status != nil {
		st := policy.Status(*req.Status)
		g.Status = &st
	}
	return g, nil
}

// DeleteGlobalPolicy removes a template. No cascade: policies seeded from
// it keep their copied fields and their dangling GlobalPolicyID.
func (h *Handler) DeleteGlobalPolicy(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteGlobalPolicy(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns all tasks, due-soonest first.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Store.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask creates a task.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Task title is required", nil)
		return
	}
	taskType := crm.TaskType(req.Type)
	if req.Type == "" {
		taskType = crm.TaskOther
	} else if !taskType.Known() {
		writeError(w, http.StatusBadRequest, "Unknown task type", nil)
		return
	}
	due, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	now := h.today()
	task := &crm.Task{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		PolicyID:    req.PolicyID,
		Title:       req.Title,
		Description: req.Description,
		Type:        taskType,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Store.SaveTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// UpdateTask applies a partial update to a task.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Type != "" {
		taskType := crm.TaskType(req.Type)
		if !taskType.Known() {
			writeError(w, http.StatusBadRequest, "Unknown task type", nil)
			return
		}
		task.Type = taskType
	}
	if req.DueDate != nil {
		if task.DueDate, err = parseDate(req.DueDate, "due_date"); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = h.today()

	if err := h.Store.SaveTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// CompleteTask marks a task done.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	task.Completed = true
	task.UpdatedAt = h.today()
	if err := h.Store.SaveTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetDashboard returns the headline KPI block.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load clients", err)
		return
	}
	policies, err := h.Store.ListPolicies(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}
	tasks, err := h.Store.ListTasks(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load tasks", err)
		return
	}
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	snap := crm.BuildSnapshot(clients, policies, tasks, h.today(), settings.RenewalLeadDays)
	premium, _ := snap.TotalPremium.Float64()
	firstYear, _ := snap.TotalFirstYearCommission.Float64()
	expected, _ := snap.TotalExpectedCommission.Float64()

	writeJSON(w, http.StatusOK, DashboardDTO{
		TotalClients:             snap.TotalClients,
		TotalPolicies:            snap.TotalPolicies,
		ActivePolicies:           snap.ActivePolicies,
		TotalPremium:             premium,
		TotalFirstYearCommission: firstYear,
		TotalExpectedCommission:  expected,
		RenewingSoon:             snap.RenewingSoon,
		OpenTasks:                snap.OpenTasks,
		OverdueTasks:             snap.OverdueTasks,
	})
}

// GetYearlyCommissions returns the projection series for the chart.
// Query params: start (default: current year), years (default: settings).
func (h *Handler) GetYearlyCommissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policies, err := h.Store.ListPolicies(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	startYear := h.today().Year()
	if s := r.URL.Query().Get("start"); s != "" {
		if startYear, err = strconv.Atoi(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start year", err)
			return
		}
	}
	years := settings.ProjectionYears
	if s := r.URL.Query().Get("years"); s != "" {
		if years, err = strconv.Atoi(s); err != nil || years < 1 || years > 50 {
			writeError(w, http.StatusBadRequest, "Invalid years (want 1-50)", err)
			return
		}
	}

	series := policy.YearlyCommissions(policies, startYear, years)
	dtos := make([]YearlyCommissionDTO, len(series))
	for i, yc := range series {
		amount, _ := yc.Amount.Float64()
		dtos[i] = YearlyCommissionDTO{Year: yc.Year, Amount: amount}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUpcomingRenewals returns policies renewing inside the lead window.
func (h *Handler) GetUpcomingRenewals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policies, err := h.Store.ListPolicies(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	windowDays := settings.RenewalLeadDays
	if s := r.URL.Query().Get("days"); s != "" {
		if windowDays, err = strconv.Atoi(s); err != nil || windowDays < 0 {
			writeError(w, http.StatusBadRequest, "Invalid days", err)
			return
		}
	}

	alerts := crm.UpcomingRenewals(policies, h.today(), windowDays)
	dtos := make([]RenewalAlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = RenewalAlertDTO{
			PolicyID:    a.Policy.ID,
			PolicyName:  a.Policy.PolicyName,
			ClientID:    a.Policy.ClientID,
			RenewalDate: a.RenewalDate.Format(dateLayout),
			DaysUntil:   a.DaysUntil,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPipeline returns clients and commission grouped by pipeline stage.
func (h *Handler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load clients", err)
		return
	}
	policies, err := h.Store.ListPolicies(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}

	groups := crm.GroupByStage(clients, policies)
	dtos := make([]StageGroupDTO, len(groups))
	for i, g := range groups {
		premium, _ := g.TotalPremium.Float64()
		expected, _ := g.ExpectedCommission.Float64()
		dtos[i] = StageGroupDTO{
			Stage:              string(g.Stage),
			ClientCount:        g.ClientCount,
			PolicyCount:        g.PolicyCount,
			TotalPremium:       premium,
			ExpectedCommission: expected,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the advisor settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		AdvisorName:     settings.AdvisorName,
		ProjectionYears: settings.ProjectionYears,
		RenewalLeadDays: settings.RenewalLeadDays,
	})
}

// SaveSettings updates the advisor settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ProjectionYears < 1 || req.ProjectionYears > 50 {
		writeError(w, http.StatusBadRequest, "projection_years must be between 1 and 50", nil)
		return
	}
	if req.RenewalLeadDays < 0 || req.RenewalLeadDays > 365 {
		writeError(w, http.StatusBadRequest, "renewal_lead_days must be between 0 and 365", nil)
		return
	}

	settings := crm.Settings{
		AdvisorName:     req.AdvisorName,
		ProjectionYears: req.ProjectionYears,
		RenewalLeadDays: req.RenewalLeadDays,
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, policy.ErrClientNotFound),
		errors.Is(err, policy.ErrPolicyNotFound),
		errors.Is(err, policy.ErrGlobalPolicyNotFound),
		errors.Is(err, policy.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "Store error", err)
	}
}
