package schedule

// ChangeReport итог сравнения двух версий недельного расписания.
// Пустой отчёт означает, что версии эквивалентны.
type ChangeReport struct {
	ScheduleID string
	Nickname   string
	// Created истинно, если сохранённой версии не существовало и расписание
	// записано впервые. В этом случае остальные поля пусты.
	Created bool
	Days    []*DayChanges
}

// DayChanges изменения внутри одного учебного дня.
type DayChanges struct {
	DayID string
	// LessonsOrderChanged истинно, если изменился состав или порядок уроков.
	// Детальные изменения предметов и оценок в этом случае не вычисляются.
	LessonsOrderChanged bool
	Marks               []*MarkChange
	Subjects            []*SubjectChange
	Announcements       AnnouncementChanges
}

// MarkChange изменение оценки за урок.
type MarkChange struct {
	LessonID    string
	LessonIndex int
	Subject     string
	Old         *int // nil, если оценки не было
	New         *int // nil, если оценка снята
}

// SubjectChange изменение названия предмета урока на той же позиции.
type SubjectChange struct {
	LessonID    string
	LessonIndex int
	Room        string
	Old         string
	New         string
}

// AnnouncementChanges добавленные и удалённые объявления дня.
type AnnouncementChanges struct {
	Added   []*Announcement
	Removed []*Announcement
}

// IsEmpty сообщает, содержит ли отчёт хоть одно изменение.
func (r *ChangeReport) IsEmpty() bool {
	if r.Created {
		return false
	}
	for _, d := range r.Days {
		if !d.IsEmpty() {
			return false
		}
	}
	return true
}

// IsEmpty сообщает, пусты ли изменения дня.
func (d *DayChanges) IsEmpty() bool {
	return !d.LessonsOrderChanged &&
		len(d.Marks) == 0 &&
		len(d.Subjects) == 0 &&
		len(d.Announcements.Added) == 0 &&
		len(d.Announcements.Removed) == 0
}
