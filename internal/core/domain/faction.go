package domain

// FactionType groups factions the way the faction browser lists them.
type FactionType string

const (
	FactionOpen     FactionType = "open"
	FactionClosed   FactionType = "closed"
	FactionCriminal FactionType = "criminal"
)

func (t FactionType) Valid() bool {
	switch t {
	case FactionOpen, FactionClosed, FactionCriminal:
		return true
	}
	return false
}

// Faction is read-only reference data keyed by name.
type Faction struct {
	Name        string      `json:"name"`
	Type        FactionType `json:"type"`
	General     string      `json:"general,omitempty"`
	Description string      `json:"description"`
}

var factionCatalog = []Faction{
	{Name: "МВД", Type: FactionOpen, Description: "Министерство внутренних дел"},
	{Name: "СОБР", Type: FactionOpen, Description: "Специальный отряд быстрого реагирования"},
	{Name: "ДПС", Type: FactionOpen, Description: "Дорожно-патрульная служба"},
	{Name: "Росгвардия", Type: FactionOpen, Description: "Федеральная служба войск национальной гвардии"},
	{Name: "ЦОДД", Type: FactionOpen, General: "Турист-вагнера", Description: "Центр организации дорожного движения"},
	{Name: "Армия", Type: FactionOpen, General: "Pancake", Description: "Вооруженные силы"},
	{Name: "Полиция", Type: FactionOpen, General: "Cailon86", Description: "Полиция города"},
	{Name: "ССО", Type: FactionClosed, Description: "Силы специальных операций"},
	{Name: "СБП", Type: FactionClosed, Description: "Служба безопасности президента"},
	{Name: "ФСБ", Type: FactionClosed, Description: "Федеральная служба безопасности"},
	{Name: "ФСО", Type: FactionClosed, Description: "Федеральная служба охраны"},
	{Name: "ОПГ Темного", Type: FactionCriminal, Description: "Организованная преступная группировка"},
	{Name: "ОПГ Красное", Type: FactionCriminal, Description: "Криминальная структура"},
	{Name: "Тамбовское ОПГ", Type: FactionCriminal, Description: "Преступная организация"},
}

// Factions returns a copy of the whole catalog in display order.
func Factions() []Faction {
	out := make([]Faction, len(factionCatalog))
	copy(out, factionCatalog)
	return out
}

// FactionsByType returns the catalog entries of one type, in display order.
func FactionsByType(t FactionType) []Faction {
	var out []Faction
	for _, f := range factionCatalog {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// LookupFaction finds a catalog entry by name.
func LookupFaction(name string) (Faction, bool) {
	for _, f := range factionCatalog {
		if f.Name == name {
			return f, true
		}
	}
	return Faction{}, false
}

// StaffMember is an entry of the public administration directory.
type StaffMember struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Administration returns the public staff directory. It is display data and
// is not derived from account roles.
func Administration() []StaffMember {
	return []StaffMember{
		{Name: "Pancake", Title: "Старший администратор"},
		{Name: "Cj", Title: "Младший администратор"},
		{Name: "gotnevl", Title: "Администратор"},
	}
}
