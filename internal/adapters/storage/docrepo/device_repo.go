package docrepo

import (
	"context"
	"fmt"

	"automed-dashboard/internal/domain/device"
	"automed-dashboard/internal/ports/docstore"
)

type deviceRepo struct {
	store docstore.Store
}

func NewDeviceRepo(store docstore.Store) device.Repository {
	return &deviceRepo{store: store}
}

func (r *deviceRepo) Telemetry(ctx context.Context) (device.Telemetry, error) {
	var t device.Telemetry
	fields := []struct {
		path string
		dst  *string
	}{
		{PathMedicationStatus, &t.Status},
		{PathClock, &t.Clock},
		{PathRFIDStatus, &t.RFIDStatus},
		{PathRFIDUID, &t.RFIDUID},
	}
	for _, f := range fields {
		snap, err := r.store.Get(ctx, f.path)
		if err != nil {
			return device.Telemetry{}, fmt.Errorf("get %s: %w", f.path, err)
		}
		*f.dst = snapshotString(snap)
	}
	return t, nil
}

func (r *deviceRepo) RequestDispense(ctx context.Context, raw string) error {
	if err := r.store.Set(ctx, PathDispenseRequest, raw); err != nil {
		return fmt.Errorf("set dispense request: %w", err)
	}
	return nil
}
