package schedule

import "context"

// Repository определяет контракт хранилища недельных расписаний.
// Реализация находится в слое инфраструктуры.
type Repository interface {
	// Sync атомарно сливает новую версию расписания с сохранённой и
	// возвращает отчёт об изменениях. Если сохранённой версии нет,
	// расписание записывается целиком и отчёт помечается Created.
	Sync(ctx context.Context, sched *Schedule) (*ChangeReport, error)

	// GetByID возвращает расписание ученика за указанную неделю.
	// Возвращает shared.ErrNotFound, если расписание не сохранено.
	GetByID(ctx context.Context, nickname, scheduleID string) (*Schedule, error)

	// ListScheduleIDs возвращает идентификаторы сохранённых недель ученика
	// в порядке возрастания.
	ListScheduleIDs(ctx context.Context, nickname string) ([]string, error)

	// Delete удаляет расписание ученика за указанную неделю.
	Delete(ctx context.Context, nickname, scheduleID string) error
}
