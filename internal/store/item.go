// internal/store/item.go
package store

import "tender-scheduler/internal/models"

// preferenceItem mirrors the DynamoDB record shape written by the
// preference intake flow. Attribute names are kept verbatim so the table
// stays shared with the intake side.
type preferenceItem struct {
	UserID      string           `dynamodbav:"user_id"`
	UserEmail   string           `dynamodbav:"user_email"`
	UserRole    string           `dynamodbav:"user_role"`
	Preferences *preferencesAttr `dynamodbav:"preferences"`
}

type preferencesAttr struct {
	SearchType         string `dynamodbav:"druh_zakazek"`
	Keywords           string `dynamodbav:"klicova_slova"`
	Schedule           string `dynamodbav:"frekvence_zasilani"`
	DeliveryEmail      string `dynamodbav:"email_pro_zasilani_vysledku"`
	CompanyDescription string `dynamodbav:"popis_firmy"`
}

func (i preferenceItem) toModel() models.UserPreference {
	pref := models.UserPreference{
		UserID: i.UserID,
		Role:   i.UserRole,
	}

	if i.Preferences != nil {
		pref.Email = i.Preferences.DeliveryEmail
		pref.SearchType = i.Preferences.SearchType
		pref.Keywords = models.NormalizeKeywords(i.Preferences.Keywords)
		pref.CompanyDescription = i.Preferences.CompanyDescription
		pref.ScheduleRaw = i.Preferences.Schedule
	}

	return pref
}
