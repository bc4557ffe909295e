package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/medisure/portal/internal/api/dto"
	"github.com/medisure/portal/internal/backend"
	"github.com/medisure/portal/internal/domain"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

const maxUploadBytes = 10 << 20

// ActionsHandler forwards signed-in callers' mutations to the backend.
type ActionsHandler struct {
	backend *backend.Factory
}

// NewActionsHandler constructs handler.
func NewActionsHandler(factory *backend.Factory) *ActionsHandler {
	return &ActionsHandler{backend: factory}
}

func (h *ActionsHandler) client(c *fiber.Ctx) (*backend.Client, error) {
	store, err := storeOf(c)
	if err != nil {
		return nil, err
	}
	return h.backend.For(store), nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return int64(id), nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func reply(c *fiber.Ctx, status int, data any, err error) error {
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": data})
}

// ListPolicies handles GET /actions/policies.
func (h *ActionsHandler) ListPolicies(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	policies, err := client.Policies.List(c.UserContext())
	return reply(c, fiber.StatusOK, policies, err)
}

// GetPolicy handles GET /actions/policies/:id.
func (h *ActionsHandler) GetPolicy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	policy, err := client.Policies.Get(c.UserContext(), id)
	return reply(c, fiber.StatusOK, policy, err)
}

// CreatePolicy handles POST /actions/policies.
func (h *ActionsHandler) CreatePolicy(c *fiber.Ctx) error {
	var in domain.PolicyInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" || in.Type == "" {
		return apperrors.NewValidationError("Please fill in all fields", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	policy, err := client.Policies.Create(c.UserContext(), in)
	return reply(c, fiber.StatusCreated, policy, err)
}

// UpdatePolicy handles PUT /actions/policies/:id.
func (h *ActionsHandler) UpdatePolicy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in domain.PolicyInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	policy, err := client.Policies.Update(c.UserContext(), id, in)
	return reply(c, fiber.StatusOK, policy, err)
}

// DeletePolicy handles DELETE /actions/policies/:id.
func (h *ActionsHandler) DeletePolicy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	if err := client.Policies.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PurchasePolicy handles POST /actions/policies/:id/purchase.
func (h *ActionsHandler) PurchasePolicy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	holder, err := client.PolicyHolders.Purchase(c.UserContext(), id)
	return reply(c, fiber.StatusCreated, holder, err)
}

// MyPolicy handles GET /actions/policies/mine.
func (h *ActionsHandler) MyPolicy(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	holder, err := client.PolicyHolders.MyPolicy(c.UserContext())
	return reply(c, fiber.StatusOK, holder, err)
}

// BookAppointment handles POST /actions/appointments.
func (h *ActionsHandler) BookAppointment(c *fiber.Ctx) error {
	var in domain.AppointmentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.DoctorID <= 0 {
		return apperrors.NewValidationError("Please select a doctor", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	appt, err := client.Appointments.Book(c.UserContext(), in)
	return reply(c, fiber.StatusCreated, appt, err)
}

// GetAppointment handles GET /actions/appointments/:id.
func (h *ActionsHandler) GetAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	appt, err := client.Appointments.Get(c.UserContext(), id)
	return reply(c, fiber.StatusOK, appt, err)
}

// TodayAppointments handles GET /actions/appointments/today.
func (h *ActionsHandler) TodayAppointments(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	appts, err := client.Doctors.TodayAppointments(c.UserContext())
	return reply(c, fiber.StatusOK, appts, err)
}

// UpdateAppointmentStatus handles PUT /actions/appointments/:id/status.
func (h *ActionsHandler) UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.AppointmentStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	appt, err := client.Doctors.UpdateAppointmentStatus(c.UserContext(), id, in.Status)
	return reply(c, fiber.StatusOK, appt, err)
}

// RegisterDoctor handles POST /actions/doctors.
func (h *ActionsHandler) RegisterDoctor(c *fiber.Ctx) error {
	var in domain.DoctorRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.UserID <= 0 || strings.TrimSpace(in.Specialization) == "" {
		return apperrors.NewValidationError("Please fill in all fields", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	doctor, err := client.Doctors.Register(c.UserContext(), in)
	return reply(c, fiber.StatusCreated, doctor, err)
}

// SubmitClaim handles POST /actions/claims as multipart/form-data.
func (h *ActionsHandler) SubmitClaim(c *fiber.Ctx) error {
	var form dto.ClaimForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(form.AmountClaimed))
	if err != nil || strings.TrimSpace(form.Description) == "" || !amount.IsPositive() {
		return apperrors.NewValidationError("Please fill in all fields", nil)
	}

	docs, err := uploadsOf(c, "documents")
	if err != nil {
		return err
	}

	client, err := h.client(c)
	if err != nil {
		return err
	}
	claim, err := client.Claims.Submit(c.UserContext(), domain.ClaimSubmission{
		Description:   form.Description,
		AmountClaimed: amount,
		ClaimDate:     form.ClaimDate,
		HospitalName:  form.HospitalName,
		DoctorName:    form.DoctorName,
		TreatmentType: form.TreatmentType,
		Documents:     docs,
	})
	return reply(c, fiber.StatusCreated, claim, err)
}

// UploadClaimDocument handles POST /actions/claims/:id/documents.
func (h *ActionsHandler) UploadClaimDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	docs, err := uploadsOf(c, "file")
	if err != nil {
		return err
	}
	if len(docs) != 1 {
		return apperrors.NewValidationError("exactly one file is required", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	if err := client.Claims.UploadDocument(c.UserContext(), id, c.FormValue("documentType"), docs[0]); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClaimsByStatus handles GET /actions/claims/status/:status.
func (h *ActionsHandler) ClaimsByStatus(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	claims, err := client.Claims.ByStatus(c.UserContext(), domain.ClaimStatus(strings.ToUpper(c.Params("status"))))
	return reply(c, fiber.StatusOK, claims, err)
}

// PendingClaims handles GET /actions/claims/pending.
func (h *ActionsHandler) PendingClaims(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	claims, err := client.ClaimsManager.Pending(c.UserContext())
	return reply(c, fiber.StatusOK, claims, err)
}

// ReviewClaim handles PUT /actions/claims/:id/review.
func (h *ActionsHandler) ReviewClaim(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ClaimReviewRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	review := domain.ClaimReview{Status: in.Status, Remarks: in.Remarks}
	claim, err := client.ClaimsManager.Review(c.UserContext(), id, review)
	return reply(c, fiber.StatusOK, claim, err)
}

// ForwardClaim handles PUT /actions/claims/:id/forward.
func (h *ActionsHandler) ForwardClaim(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ForwardRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	claim, err := client.Claims.ForwardToFinance(c.UserContext(), id, in.Remarks)
	return reply(c, fiber.StatusOK, claim, err)
}

// ProcessClaim handles POST /actions/finance/claims/:id.
func (h *ActionsHandler) ProcessClaim(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.FinanceDecisionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	record, err := client.Finance.ProcessClaim(c.UserContext(), id, domain.FinanceDecision{
		Status:         in.Status,
		Remarks:        in.Remarks,
		ApprovedAmount: in.ApprovedAmount,
	})
	return reply(c, fiber.StatusOK, record, err)
}

// FinanceRecords handles GET /actions/finance/records.
func (h *ActionsHandler) FinanceRecords(c *fiber.Ctx) error {
	client, err := h.client(c)
	if err != nil {
		return err
	}
	records, err := client.Finance.Records(c.UserContext())
	return reply(c, fiber.StatusOK, records, err)
}

// CreateEmployee handles POST /actions/admin/employees.
func (h *ActionsHandler) CreateEmployee(c *fiber.Ctx) error {
	var in domain.EmployeeCreateRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.FullName == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return apperrors.NewValidationError("Please fill in all fields", nil)
	}
	if !in.Role.Known() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	user, err := client.Admin.CreateEmployee(c.UserContext(), in)
	return reply(c, fiber.StatusCreated, user, err)
}

// UpdateUser handles PUT /actions/admin/users/:id.
func (h *ActionsHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in domain.UserUpdate
	if err := parseBody(c, &in); err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	user, err := client.Admin.UpdateUser(c.UserContext(), id, in)
	return reply(c, fiber.StatusOK, user, err)
}

// ChangeRole handles PUT /actions/admin/users/:id/role.
func (h *ActionsHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.RoleChangeRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if !in.Role.Known() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	user, err := client.Admin.ChangeRole(c.UserContext(), id, in.Role)
	return reply(c, fiber.StatusOK, user, err)
}

// DeleteUser handles DELETE /actions/admin/users/:id.
func (h *ActionsHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.client(c)
	if err != nil {
		return err
	}
	if err := client.Admin.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func uploadsOf(c *fiber.Ctx, field string) ([]domain.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("multipart/form-data body required", map[string]any{"reason": err.Error()})
	}

	headers := form.File[field]
	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadBytes {
			return nil, apperrors.NewValidationError("file too large", map[string]any{"file": fh.Filename})
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return uploads, nil
}
