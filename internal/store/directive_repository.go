package store

import (
	"context"
	"fmt"
	"time"

	"empathy-engine/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// directiveRepository реализует DirectiveRepository
type directiveRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewDirectiveRepository создает новый репозиторий истории обработки
func NewDirectiveRepository(db *pgxpool.Pool, logger *zap.Logger) DirectiveRepository {
	return &directiveRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет запись обработки запроса
func (r *directiveRepository) Create(ctx context.Context, record *models.SynthesisRecord) error {
	query := `
		INSERT INTO synthesis_history (text_hash, text_length, label, confidence, source, tier, engine, rate, pitch, volume, clamped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	record.CreatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		record.TextHash, record.TextLength, record.Label, record.Confidence, record.Source,
		record.Tier, record.Engine, record.Rate, record.Pitch, record.Volume, record.Clamped, record.CreatedAt,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("ошибка сохранения записи истории: %w", err)
	}

	r.logger.Debug("запись истории сохранена",
		zap.Int64("record_id", record.ID),
		zap.String("label", string(record.Label)),
		zap.String("tier", string(record.Tier)))

	return nil
}

// GetRecent получает последние записи истории
func (r *directiveRepository) GetRecent(ctx context.Context, limit int) ([]models.SynthesisRecord, error) {
	query := `
		SELECT id, text_hash, text_length, label, confidence, source, tier, engine, rate, pitch, volume, clamped, created_at
		FROM synthesis_history
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	var records []models.SynthesisRecord
	for rows.Next() {
		var rec models.SynthesisRecord
		err := rows.Scan(
			&rec.ID, &rec.TextHash, &rec.TextLength, &rec.Label, &rec.Confidence, &rec.Source,
			&rec.Tier, &rec.Engine, &rec.Rate, &rec.Pitch, &rec.Volume, &rec.Clamped, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи истории: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по истории: %w", err)
	}

	return records, nil
}

// CountByLabel получает распределение запросов по эмоциям
func (r *directiveRepository) CountByLabel(ctx context.Context) (map[models.EmotionLabel]int, error) {
	query := `SELECT label, COUNT(*) FROM synthesis_history GROUP BY label`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета по эмоциям: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EmotionLabel]int)
	for rows.Next() {
		var label models.EmotionLabel
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования распределения: %w", err)
		}
		counts[label] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по распределению: %w", err)
	}

	return counts, nil
}

// DeleteOlderThan удаляет записи старше периода хранения
func (r *directiveRepository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	query := `DELETE FROM synthesis_history WHERE created_at < $1`

	cutoff := time.Now().Add(-retention)

	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки истории: %w", err)
	}

	deleted := result.RowsAffected()
	if deleted > 0 {
		r.logger.Info("очищены старые записи истории",
			zap.Int64("deleted_count", deleted),
			zap.Time("cutoff", cutoff))
	}

	return deleted, nil
}
