package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"photoframe/internal/export"
	"photoframe/internal/ports"
)

// PlanKey is the storage object key of an export's plan.
func PlanKey(exportID string) string {
	return fmt.Sprintf("exports/%s/plan.json", exportID)
}

type OutputHandler struct {
	sp ports.StorageProvider
}

func NewOutputHandler(sp ports.StorageProvider) *OutputHandler {
	return &OutputHandler{sp: sp}
}

// WritePlan uploads plan as indented JSON and returns the key the provider
// stored it under.
func (oh *OutputHandler) WritePlan(ctx context.Context, exportID string, plan *export.Plan) (string, error) {
	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}

	out, err := oh.sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   PlanKey(exportID),
		ContentType: "application/json",
		Reader:      bytes.NewReader(body),
		Size:        int64(len(body)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload plan: %w", err)
	}
	return out.ObjectKey, nil
}
