// Package schedule содержит доменную модель недельного школьного расписания.
// Агрегатом является Schedule: неделя учебных дней с уроками, домашними
// заданиями, вложениями и объявлениями. Пакет не зависит от инфраструктуры.
package schedule

import (
	"strings"
	"time"

	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════

// AnnouncementType тип объявления в учебном дне.
type AnnouncementType string

const (
	// AnnouncementBehavior запись о поведении ученика.
	AnnouncementBehavior AnnouncementType = "behavior"
	// AnnouncementGeneral общее объявление (контрольная, мероприятие).
	AnnouncementGeneral AnnouncementType = "general"
)

// IsValid проверяет корректность типа объявления.
func (t AnnouncementType) IsValid() bool {
	return t == AnnouncementBehavior || t == AnnouncementGeneral
}

// ══════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════

// Schedule недельное расписание ученика. Корень агрегата.
type Schedule struct {
	ID       string       // ISO-год + номер ISO-недели, например "202447"
	Nickname string       // псевдоним ученика, владельца расписания
	Days     []*SchoolDay // учебные дни недели в хронологическом порядке
	// Attachments сводный список вложений недели для быстрого доступа
	// без обхода дерева.
	Attachments []*ScheduleAttachment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SchoolDay один учебный день внутри недели.
type SchoolDay struct {
	ID            string    // дата в формате YYYYMMDD
	Date          time.Time // полночь в школьном часовом поясе
	Lessons       []*Lesson
	Announcements []*Announcement
}

// Lesson один урок учебного дня.
type Lesson struct {
	ID          string // <dayID>_<index>
	Index       int    // порядковый номер урока, начиная с 1
	Subject     string
	Room        string // пустая строка, если кабинет не указан
	Topic       string
	Mark        *int // оценка по десятибалльной шкале, nil если оценки нет
	Homework    *Homework
	Attachments []*Attachment // файлы, прикреплённые к теме урока
}

// Homework домашнее задание урока.
type Homework struct {
	ID          string
	Text        string
	Links       []*Link
	Attachments []*Attachment
}

// Link гиперссылка внутри домашнего задания. DestinationURL заполняется,
// когда исходный URL является обёрткой портала вокруг внешнего адреса.
type Link struct {
	ID             string
	OriginalURL    string
	DestinationURL string // пустая строка, если ссылка ведёт напрямую
}

// Attachment файл, прикреплённый к заданию или теме урока.
type Attachment struct {
	ID       string
	Filename string
	URL      string
}

// ScheduleAttachment элемент сводного списка вложений недели. Несёт
// сведения о владельце, чтобы уведомление могло назвать урок.
type ScheduleAttachment struct {
	Attachment
	DayID       string
	Subject     string
	LessonIndex int
}

// Announcement объявление учебного дня.
type Announcement struct {
	ID   string
	Type AnnouncementType
	Text string // полный текст общего объявления, пусто для записей о поведении

	// Поля записи о поведении. Заполняются только для AnnouncementBehavior.
	BehaviorType string // ключевое слово, например "Centīgs"
	Description  string
	Rating       string // "pozitīvs" или "negatīvs"
	Subject      string // предмет, к которому относится запись
}

// ══════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════

// NewScheduleParams параметры для создания расписания.
type NewScheduleParams struct {
	Nickname string
	Days     []*SchoolDay
}

// NewSchedule создаёт недельное расписание с вычисленным идентификатором.
// Требует хотя бы один день: неделя без дней не имеет идентичности.
func NewSchedule(params NewScheduleParams) (*Schedule, error) {
	nickname := strings.TrimSpace(params.Nickname)
	if nickname == "" {
		return nil, shared.ErrNicknameEmpty
	}
	if len(params.Days) == 0 {
		return nil, shared.ErrScheduleEmpty
	}

	now := time.Now().UTC()
	return &Schedule{
		ID:        ComputeScheduleID(params.Days[0].Date),
		Nickname:  nickname,
		Days:      params.Days,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewSchoolDay создаёт учебный день на заданную дату.
func NewSchoolDay(date time.Time) *SchoolDay {
	return &SchoolDay{
		ID:   ComputeDayID(date),
		Date: date,
	}
}

// NewLessonParams параметры для создания урока.
type NewLessonParams struct {
	DayID   string
	Index   int
	Subject string
	Room    string
	Topic   string
	Mark    *int
}

// NewLesson создаёт урок с проверкой инвариантов.
func NewLesson(params NewLessonParams) (*Lesson, error) {
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return nil, shared.ErrSubjectEmpty
	}
	if params.Index < 1 {
		return nil, shared.ErrLessonIndexInvalid
	}
	if params.Mark != nil && (*params.Mark < 1 || *params.Mark > 10) {
		return nil, shared.ErrMarkOutOfRange
	}

	return &Lesson{
		ID:      ComputeLessonID(params.DayID, params.Index),
		Index:   params.Index,
		Subject: subject,
		Room:    strings.TrimSpace(params.Room),
		Topic:   params.Topic,
		Mark:    params.Mark,
	}, nil
}

// NewHomework создаёт домашнее задание с идентификатором от текста.
func NewHomework(lessonID, text string) *Homework {
	return &Homework{
		ID:   ComputeHomeworkID(lessonID, text),
		Text: text,
	}
}

// NewLink создаёт ссылку домашнего задания.
func NewLink(homeworkID, originalURL, destinationURL string) *Link {
	return &Link{
		ID:             ComputeLinkID(homeworkID, originalURL, destinationURL),
		OriginalURL:    originalURL,
		DestinationURL: destinationURL,
	}
}

// NewAttachment создаёт вложение, принадлежащее сущности ownerID.
func NewAttachment(ownerID, filename, url string) *Attachment {
	return &Attachment{
		ID:       ComputeAttachmentID(ownerID, filename, url),
		Filename: filename,
		URL:      url,
	}
}

// NewAnnouncementParams параметры для создания объявления.
type NewAnnouncementParams struct {
	DayID        string
	Type         AnnouncementType
	Text         string
	BehaviorType string
	Description  string
	Rating       string
	Subject      string
}

// NewAnnouncement создаёт объявление. Запись о поведении обязана содержать
// все четыре поля поведения, общее объявление обязано содержать текст.
func NewAnnouncement(params NewAnnouncementParams) (*Announcement, error) {
	if !params.Type.IsValid() {
		return nil, shared.ErrAnnouncementFields
	}
	text := strings.TrimSpace(params.Text)
	switch params.Type {
	case AnnouncementBehavior:
		if params.BehaviorType == "" || params.Description == "" ||
			params.Rating == "" || params.Subject == "" {
			return nil, shared.ErrAnnouncementFields
		}
	case AnnouncementGeneral:
		if text == "" {
			return nil, shared.ErrAnnouncementFields
		}
	}

	return &Announcement{
		ID:           ComputeAnnouncementID(params.DayID, params.Type, text, params.BehaviorType, params.Description),
		Type:         params.Type,
		Text:         text,
		BehaviorType: params.BehaviorType,
		Description:  params.Description,
		Rating:       params.Rating,
		Subject:      params.Subject,
	}, nil
}

// ══════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════

// Day возвращает день с указанным идентификатором или nil.
func (s *Schedule) Day(dayID string) *SchoolDay {
	for _, d := range s.Days {
		if d.ID == dayID {
			return d
		}
	}
	return nil
}

// Touch обновляет отметку времени изменения.
func (s *Schedule) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Lesson возвращает урок с указанным идентификатором или nil.
func (d *SchoolDay) Lesson(lessonID string) *Lesson {
	for _, l := range d.Lessons {
		if l.ID == lessonID {
			return l
		}
	}
	return nil
}

// HasMark сообщает, выставлена ли оценка за урок.
func (l *Lesson) HasMark() bool {
	return l.Mark != nil
}

// IsBehavior сообщает, является ли объявление записью о поведении.
func (a *Announcement) IsBehavior() bool {
	return a.Type == AnnouncementBehavior
}

// Clone возвращает глубокую копию расписания.
func (s *Schedule) Clone() *Schedule {
	clone := *s
	clone.Days = make([]*SchoolDay, len(s.Days))
	for i, d := range s.Days {
		clone.Days[i] = d.Clone()
	}
	clone.Attachments = make([]*ScheduleAttachment, len(s.Attachments))
	for i, a := range s.Attachments {
		ac := *a
		clone.Attachments[i] = &ac
	}
	return &clone
}

// Clone возвращает глубокую копию учебного дня.
func (d *SchoolDay) Clone() *SchoolDay {
	clone := *d
	clone.Lessons = make([]*Lesson, len(d.Lessons))
	for i, l := range d.Lessons {
		clone.Lessons[i] = l.Clone()
	}
	clone.Announcements = make([]*Announcement, len(d.Announcements))
	for i, a := range d.Announcements {
		ac := *a
		clone.Announcements[i] = &ac
	}
	return &clone
}

// Clone возвращает глубокую копию урока.
func (l *Lesson) Clone() *Lesson {
	clone := *l
	if l.Mark != nil {
		mark := *l.Mark
		clone.Mark = &mark
	}
	if l.Homework != nil {
		clone.Homework = l.Homework.Clone()
	}
	clone.Attachments = cloneAttachments(l.Attachments)
	return &clone
}

// Clone возвращает глубокую копию домашнего задания.
func (h *Homework) Clone() *Homework {
	clone := *h
	clone.Links = make([]*Link, len(h.Links))
	for i, link := range h.Links {
		lc := *link
		clone.Links[i] = &lc
	}
	clone.Attachments = cloneAttachments(h.Attachments)
	return &clone
}

func cloneAttachments(attachments []*Attachment) []*Attachment {
	if attachments == nil {
		return nil
	}
	clone := make([]*Attachment, len(attachments))
	for i, a := range attachments {
		ac := *a
		clone[i] = &ac
	}
	return clone
}
