package gormdb

import (
	"context"

	"gorm.io/gorm"

	"streetpaws/internal/domain/helplines"
)

type helplinesRepo struct {
	db *gorm.DB
}

func (r *helplinesRepo) Create(ctx context.Context, h helplines.Helpline) (helplines.Helpline, error) {
	row := helplineRow{
		Name:        h.Name,
		Type:        h.Type,
		Phone:       h.Phone,
		Hours:       h.Hours,
		Coverage:    h.Coverage,
		Description: h.Description,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return helplines.Helpline{}, err
	}
	return row.toDomain(), nil
}

func (r *helplinesRepo) List(ctx context.Context) ([]helplines.Helpline, error) {
	var rows []helplineRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]helplines.Helpline, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *helplinesRepo) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&helplineRow{}).Count(&n).Error
	return int(n), err
}
