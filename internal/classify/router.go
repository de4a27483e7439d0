package classify

import (
	"fmt"
	"strings"
)

// Departments
const (
	DepartmentRejected    = "REJECTED"
	DepartmentSanitation  = "Коммунальные службы / Санитария"
	DepartmentLighting    = "Горсвет / Отдел освещения"
	DepartmentImprovement = "Благоустройство / ЖКХ"
	DepartmentRoads       = "Дорожная служба / Транспорт"
	DepartmentDispatch    = "Единая диспетчерская"
)

// Themes
const (
	ThemeWaste      = "waste"
	ThemePlayground = "playground"
	ThemeLighting   = "lighting"
	ThemeRoad       = "road"
	ThemeOther      = "other"
)

// Routing is the department assignment with its explanation
type Routing struct {
	Department string `json:"department"`
	Theme      string `json:"theme"`
	Explain    string `json:"routing_explain"`
}

// Route picks a department. The image label wins over the text category.
func Route(cvLabel, nlpCategory, nlpUrgency string, relevant bool) Routing {
	if !relevant {
		return Routing{
			Department: DepartmentRejected,
			Explain:    "CV-модуль определил изображение как нерелевантное городской проблеме или уверенность ниже порога.",
		}
	}

	theme := themeFromLabel(cvLabel)
	if theme == "" {
		theme = themeFromCategory(nlpCategory)
	}

	var dept string
	switch theme {
	case ThemeWaste:
		dept = DepartmentSanitation
	case ThemeLighting:
		dept = DepartmentLighting
	case ThemePlayground:
		dept = DepartmentImprovement
	case ThemeRoad:
		dept = DepartmentRoads
	default:
		dept = DepartmentDispatch
	}

	explain := fmt.Sprintf("Решение маршрутизации:\n- CV: %s\n- NLP: %s\n- Срочность: %s\n- Итоговая тема: %s\n- Инстанция: %s",
		cvLabel, nlpCategory, nlpUrgency, theme, dept)

	return Routing{Department: dept, Theme: theme, Explain: explain}
}

func themeFromLabel(label string) string {
	switch {
	case containsAny(label, "trash", "container", "dumpster"):
		return ThemeWaste
	case containsAny(label, "playground"):
		return ThemePlayground
	case containsAny(label, "lighting", "lamp"):
		return ThemeLighting
	case containsAny(label, "road", "pothole", "sidewalk"):
		return ThemeRoad
	}
	return ""
}

func themeFromCategory(category string) string {
	switch {
	case containsAny(category, "trash", "illegal dump", "litter"):
		return ThemeWaste
	case containsAny(category, "playground"):
		return ThemePlayground
	case containsAny(category, "lighting"):
		return ThemeLighting
	case containsAny(category, "road", "pavement"):
		return ThemeRoad
	}
	return ThemeOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
