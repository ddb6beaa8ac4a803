package batch

import (
	"fmt"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/calc/cylinder"
)

type CylinderBatchInput struct {
	Items []cylinder.Request `json:"items"`
}

type CylinderBatchResult struct {
	Count   int                 `json:"count"`
	Results []cylinder.Response `json:"results"`
}

// CalculateCylinders derives every item. One item with an unknown unit
// system fails the whole batch.
func CalculateCylinders(in CylinderBatchInput, f *cylinder.Formatter) (CylinderBatchResult, error) {
	if len(in.Items) == 0 {
		return CylinderBatchResult{}, apperr.Invalid("batch.derive", "no items")
	}
	out := CylinderBatchResult{Results: make([]cylinder.Response, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := cylinder.Calculate(item, f)
		if err != nil {
			return CylinderBatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}
