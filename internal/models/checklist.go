package models

import "time"

type ProofType string

const (
	ProofLink ProofType = "link"
	ProofFile ProofType = "file"
)

// ChecklistState is the derived state of a checklist item:
// not_started → completed → approved. Approval requires prior
// completion; items cannot be un-completed or un-approved.
type ChecklistState string

const (
	ChecklistNotStarted ChecklistState = "not_started"
	ChecklistCompleted  ChecklistState = "completed"
	ChecklistApproved   ChecklistState = "approved"
)

// SetupChecklistItem is one of the ten fixed onboarding items
// instantiated per project from ChecklistTemplate.
type SetupChecklistItem struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ProjectID uint64 `gorm:"not null;index" json:"project_id"`

	ItemNumber  int    `gorm:"not null" json:"item_number"`
	Title       string `gorm:"type:varchar(500);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedBy string     `gorm:"type:varchar(100)" json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`

	IsApproved bool       `gorm:"default:false" json:"is_approved"`
	ApprovedBy string     `gorm:"type:varchar(100)" json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	ProofType   ProofType `gorm:"type:varchar(20)" json:"proof_type"`
	ProofURL    string    `gorm:"type:text" json:"proof_url"`
	ProofFileID string    `gorm:"type:varchar(200)" json:"proof_file_id"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// State derives the item's checklist state from its flags.
func (i *SetupChecklistItem) State() ChecklistState {
	switch {
	case i.IsApproved:
		return ChecklistApproved
	case i.IsCompleted:
		return ChecklistCompleted
	default:
		return ChecklistNotStarted
	}
}

// Approvers is the fixed set of people allowed to sign off checklist
// items.
var Approvers = []string{
	"Такаева Наташа",
	"Кудовеков Сергей",
	"Ротвилишвили Георгий",
	"Шагазатов Диер",
	"Балахнин Илья",
}

// IsApprover reports whether name is on the fixed approver list.
func IsApprover(name string) bool {
	for _, a := range Approvers {
		if a == name {
			return true
		}
	}
	return false
}

// ChecklistTemplateItem is one entry of the fixed onboarding template.
type ChecklistTemplateItem struct {
	ItemNumber  int
	Title       string
	Description string
}

// ChecklistTemplate is the ordered 10-item setup checklist every new
// project is instantiated with.
var ChecklistTemplate = []ChecklistTemplateItem{
	{1, "Создание чата с клиентом и представление команды",
		"Создать чат с клиентом в Telegram/WhatsApp, представить команду проекта"},
	{2, "Выбор менеджера проекта",
		"Выбрать менеджера проекта из рабочей группы"},
	{3, "Получение и обработка оргструктуры",
		"Получить файл оргструктуры клиента, добавить комментарии: кто важен, кто LPR и т.д."},
	{4, "Отправить запрос стартовых материалов",
		"Отправить клиенту ссылку на Google Spreadsheet шаблон для запроса материалов"},
	{5, "Согласовать дату открывающей сессии",
		"Согласовать с клиентом дату и время открывающей сессии"},
	{6, "Создание Miro проекта",
		"Создать Miro board для проекта"},
	{7, "Добавить проект в финтаблицу",
		"Добавить проект в финансовую таблицу Paper Planes"},
	{8, "Добавить проект в таблицу Производства по деньгам",
		"Добавить проект в таблицу отслеживания производства"},
	{9, "Добавить проект в борд инициирования в Kaiten",
		"Создать карточку проекта в борде инициирования Kaiten"},
	{10, "Создан внутренний чат проекта в Telegram",
		"Создать внутренний чат команды проекта в Telegram"},
}
