package database

import (
	"fmt"
	"log"

	"github.com/paperplanes/pm-tool/internal/models"
	"gorm.io/gorm"
)

// methodologyCatalog is the fixed 36-entry БПМ/БПА reference catalog.
// 11 mining methods (БПМ) plus 25 assembling methods (БПА).
var methodologyCatalog = []models.Methodology{
	{Code: "БПМ1", Name: "Опросы", Category: models.CategoryMining,
		Description: "Количественные исследования с большими выборками", TypicalEffortHours: 16, RequiresDetails: true},
	{Code: "БПМ2", Name: "Интервью с клиентами", Category: models.CategoryMining,
		Description: "Качественные интервью с клиентами для выявления инсайтов", TypicalEffortHours: 24, RequiresDetails: true},
	{Code: "БПМ3", Name: "Оргинтервью", Category: models.CategoryMining,
		Description: "Организационные интервью - анализ проблем через интервью с сотрудниками", TypicalEffortHours: 12, RequiresDetails: true},
	{Code: "БПМ4", Name: "Кабинетный анализ", Category: models.CategoryMining,
		Description: "Desk research: анализ вторичных данных, отчетов, документации", TypicalEffortHours: 8},
	{Code: "БПМ5", Name: "Хронометраж", Category: models.CategoryMining,
		Description: "Наблюдение и измерение временных затрат на процессы", TypicalEffortHours: 16, RequiresDetails: true},
	{Code: "БПМ6", Name: "Тайник", Category: models.CategoryMining,
		Description: "Mystery shopping / Тайный покупатель", TypicalEffortHours: 12, RequiresDetails: true},
	{Code: "БПМ7", Name: "Ассесмент", Category: models.CategoryMining,
		Description: "Оценка компетенций сотрудников и команды", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПМ8", Name: "Фокус-группа", Category: models.CategoryMining,
		Description: "Групповая дискуссия для выявления коллективных мнений", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПМ9", Name: "Анализ база", Category: models.CategoryMining,
		Description: "Анализ клиентской базы и данных CRM", TypicalEffortHours: 20, RequiresDetails: true},
	{Code: "БПМ10", Name: "Анализ рынка", Category: models.CategoryMining,
		Description: "Исследование рыночной конъюнктуры и конкурентов", TypicalEffortHours: 16, RequiresDetails: true},
	{Code: "БПМ11", Name: "Анализ производства", Category: models.CategoryMining,
		Description: "Исследование производственных процессов и мощностей", TypicalEffortHours: 12, RequiresDetails: true},

	{Code: "БПА1", Name: "Целевые клиентские группы (ЦКГ)", Category: models.CategoryAssembling,
		Description: "Сегментация и описание целевых клиентских групп", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА2", Name: "Приоритетные рынки (Оценка по 5 силам Портера)", Category: models.CategoryAssembling,
		Description: "Оценка и приоритизация рынков", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА3", Name: "Как сегменты", Category: models.CategoryAssembling,
		Description: "Сегментация рынка", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА4", Name: "Как регионы", Category: models.CategoryAssembling,
		Description: "Региональная сегментация", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА5", Name: "Целевой трафик-мэп (TM)", Category: models.CategoryAssembling,
		Description: "Карта целевого трафика", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА6", Name: "Бизнес-процессы", Category: models.CategoryAssembling,
		Description: "Описание бизнес-процессов", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА7", Name: "Кроссфункциональные процессы (КФП)", Category: models.CategoryAssembling,
		Description: "Кроссфункциональные процессы (например, выравнивание)", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА8", Name: "Процессы функциональных колодцев", Category: models.CategoryAssembling,
		Description: "БП + примечание, например, CM, ОП, HR и т.п.", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА9", Name: "Целевая Ассортиментная матрица (AM)", Category: models.CategoryAssembling,
		Description: "Ассортиментная матрица", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА10", Name: "Ценовая политика (Цена)", Category: models.CategoryAssembling,
		Description: "Разработка ценовой политики", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА11", Name: "Позиционирование (Бренд/УТП/EVP)", Category: models.CategoryAssembling,
		Description: "Позиционирование бренда и ценностное предложение", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА12", Name: "CJM/EJM", Category: models.CategoryAssembling,
		Description: "Customer Journey Map / Employee Journey Map", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА13", Name: "Оргструктура (ОС)", Category: models.CategoryAssembling,
		Description: "Оргструктура + примечание, например, ОМ, ОП, HR и т.п.", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА14", Name: "Модель компетенций (МК)", Category: models.CategoryAssembling,
		Description: "Разработка модели компетенций", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА15", Name: "Материалы поддержки продаж (МПП)", Category: models.CategoryAssembling,
		Description: "МПП, включая книгу продаж, скрипты и т.п.", TypicalEffortHours: 12, RequiresDetails: true},
	{Code: "БПА16", Name: "ИТ-стек (БТ и тп)", Category: models.CategoryAssembling,
		Description: "Описание ИТ-стека и бизнес-технологий", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА17", Name: "Целевая модель данных (ЦМД)", Category: models.CategoryAssembling,
		Description: "Целевая модель данных", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА18", Name: "Рычаги роста (Брейн)", Category: models.CategoryAssembling,
		Description: "Рычаги роста по доходам или расходам", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА19", Name: "Финмодель (ФМ) или Финмашина", Category: models.CategoryAssembling,
		Description: "Финансовая модель или Финмашина", TypicalEffortHours: 16, RequiresDetails: true},
	{Code: "БПА20", Name: "Модель Остервальдера и Пинье (ОиП) или Бизнес-модель (БМ)", Category: models.CategoryAssembling,
		Description: "Бизнес-модель Остервальдера и Пинье или Бизнес-модель Canvas", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА21", Name: "Бизнес-календари и Операционная система работ (ОСР)", Category: models.CategoryAssembling,
		Description: "Бизнес-календари и ОСР", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА22", Name: "Должностные инструкции (ДИ) или папка сотрудника", Category: models.CategoryAssembling,
		Description: "Должностные инструкции или папка сотрудника", TypicalEffortHours: 8, RequiresDetails: true},
	{Code: "БПА23", Name: "Функциональная стратегия", Category: models.CategoryAssembling,
		Description: "Разработка функциональной стратегии", TypicalEffortHours: 10, RequiresDetails: true},
	{Code: "БПА24", Name: "Найм", Category: models.CategoryAssembling,
		Description: "Процессы и материалы найма", TypicalEffortHours: 6, RequiresDetails: true},
	{Code: "БПА25", Name: "Проведение обучения", Category: models.CategoryAssembling,
		Description: "Материалы и процессы обучения", TypicalEffortHours: 8, RequiresDetails: true},
}

// SeedMethodologies inserts the fixed catalog once. A non-empty table
// means the catalog is already present and the seed is skipped.
func SeedMethodologies(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Methodology{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count methodologies: %w", err)
	}
	if count > 0 {
		log.Printf("Methodology catalog already contains %d entries, skipping seed", count)
		return nil
	}

	if err := db.Create(&methodologyCatalog).Error; err != nil {
		return fmt.Errorf("failed to seed methodologies: %w", err)
	}

	log.Printf("Seeded %d methodologies", len(methodologyCatalog))
	return nil
}
