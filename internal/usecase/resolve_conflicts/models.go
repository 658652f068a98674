package resolve_conflicts

// Result итог разрешения конфликтов
type Result struct {
	Rejected []int64 // отклонены автоматически
	Skipped  []int64 // конфликтовали, но уже не в статусе pending к моменту обновления
	Failed   []int64 // не удалось обновить статус, остались pending
}
