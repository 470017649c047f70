package store

import (
	"context"
	"fmt"

	"laundryhub-backend/internal/model"
)

// Analytics is the admin dashboard summary: record counts grouped by
// lifecycle status per collection.
type Analytics struct {
	Orders    map[string]int64 `json:"orders"`
	QRCodes   map[string]int64 `json:"qrCodes"`
	LostItems map[string]int64 `json:"lostItems"`
	Machines  map[string]int64 `json:"machines"`
	Students  int64            `json:"students"`
}

type statusCount struct {
	Status string
	Total  int64
}

// StatusCounts aggregates each collection by status in a single grouped
// query per table.
func (s *gormStore) StatusCounts(ctx context.Context) (*Analytics, error) {
	a := &Analytics{
		Orders:    make(map[string]int64),
		QRCodes:   make(map[string]int64),
		LostItems: make(map[string]int64),
		Machines:  make(map[string]int64),
	}

	tables := []struct {
		mdl  any
		dest map[string]int64
	}{
		{&model.LaundryOrder{}, a.Orders},
		{&model.QRCode{}, a.QRCodes},
		{&model.LostItem{}, a.LostItems},
		{&model.Machine{}, a.Machines},
	}

	for _, tbl := range tables {
		var rows []statusCount
		if err := s.db.WithContext(ctx).
			Model(tbl.mdl).
			Select("status, COUNT(*) as total").
			Group("status").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
		}
		for _, r := range rows {
			tbl.dest[r.Status] = r.Total
		}
	}

	if err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", model.RoleStudent).
		Count(&a.Students).Error; err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	return a, nil
}
