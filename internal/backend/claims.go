package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/medisure/portal/internal/domain"
)

// ClaimsAPI covers /claims.
type ClaimsAPI struct{ c *Client }

// Submit files a claim as multipart/form-data, attaching every document under "documents".
func (a ClaimsAPI) Submit(ctx context.Context, in domain.ClaimSubmission) (domain.Claim, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"description", in.Description},
		{"amountClaimed", in.AmountClaimed.String()},
		{"claimDate", in.ClaimDate},
		{"hospitalName", in.HospitalName},
		{"doctorName", in.DoctorName},
		{"treatmentType", in.TreatmentType},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return domain.Claim{}, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for _, doc := range in.Documents {
		if err := writeUpload(w, "documents", doc); err != nil {
			return domain.Claim{}, err
		}
	}
	if err := w.Close(); err != nil {
		return domain.Claim{}, fmt.Errorf("close multipart: %w", err)
	}

	var out domain.Claim
	err := a.c.doMultipart(ctx, "/claims", w.FormDataContentType(), &buf, &out)
	return out, err
}

// UploadDocument attaches one more document to an existing claim.
func (a ClaimsAPI) UploadDocument(ctx context.Context, claimID int64, documentType string, doc domain.Upload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("documentType", documentType); err != nil {
		return fmt.Errorf("write field documentType: %w", err)
	}
	if err := writeUpload(w, "file", doc); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	return a.c.doMultipart(ctx, idPath("/claims/%d/upload-document", claimID), w.FormDataContentType(), &buf, nil)
}

func (a ClaimsAPI) Mine(ctx context.Context) ([]domain.Claim, error) {
	var out []domain.Claim
	err := a.c.doJSON(ctx, http.MethodGet, "/claims/my-claims", nil, &out)
	return out, err
}

func (a ClaimsAPI) All(ctx context.Context) ([]domain.Claim, error) {
	var out []domain.Claim
	err := a.c.doJSON(ctx, http.MethodGet, "/claims", nil, &out)
	return out, err
}

func (a ClaimsAPI) ByStatus(ctx context.Context, status domain.ClaimStatus) ([]domain.Claim, error) {
	var out []domain.Claim
	err := a.c.doJSON(ctx, http.MethodGet, "/claims/status/"+url.PathEscape(string(status)), nil, &out)
	return out, err
}

func (a ClaimsAPI) Review(ctx context.Context, id int64, review domain.ClaimReview) (domain.Claim, error) {
	var out domain.Claim
	err := a.c.doJSON(ctx, http.MethodPut, idPath("/claims/%d/review", id), review, &out)
	return out, err
}

func (a ClaimsAPI) ForwardToFinance(ctx context.Context, id int64, remarks string) (domain.Claim, error) {
	var out domain.Claim
	body := map[string]string{"remarks": remarks}
	err := a.c.doJSON(ctx, http.MethodPut, idPath("/claims/%d/forward-to-finance", id), body, &out)
	return out, err
}

// ClaimsManagerAPI covers /claims-manager.
type ClaimsManagerAPI struct{ c *Client }

func (a ClaimsManagerAPI) Claims(ctx context.Context) ([]domain.Claim, error) {
	var out []domain.Claim
	err := a.c.doJSON(ctx, http.MethodGet, "/claims-manager/claims", nil, &out)
	return out, err
}

func (a ClaimsManagerAPI) Pending(ctx context.Context) ([]domain.Claim, error) {
	var out []domain.Claim
	err := a.c.doJSON(ctx, http.MethodGet, "/claims-manager/claims/pending", nil, &out)
	return out, err
}

func (a ClaimsManagerAPI) Review(ctx context.Context, id int64, review domain.ClaimReview) (domain.Claim, error) {
	var out domain.Claim
	err := a.c.doJSON(ctx, http.MethodPut, idPath("/claims-manager/claims/%d/review", id), review, &out)
	return out, err
}

// FinanceAPI covers /finance.
type FinanceAPI struct{ c *Client }

func (f FinanceAPI) ProcessClaim(ctx context.Context, claimID int64, decision domain.FinanceDecision) (domain.FinanceRecord, error) {
	var out domain.FinanceRecord
	err := f.c.doJSON(ctx, http.MethodPost, idPath("/finance/process-claim/%d", claimID), decision, &out)
	return out, err
}

func (f FinanceAPI) Records(ctx context.Context) ([]domain.FinanceRecord, error) {
	var out []domain.FinanceRecord
	err := f.c.doJSON(ctx, http.MethodGet, "/finance/records", nil, &out)
	return out, err
}

func writeUpload(w *multipart.Writer, field string, doc domain.Upload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, doc.FileName))
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", doc.FileName, err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return fmt.Errorf("write part %s: %w", doc.FileName, err)
	}
	return nil
}

func (c *Client) doMultipart(ctx context.Context, path, contentType string, body *bytes.Buffer, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}
