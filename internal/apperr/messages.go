package apperr

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[Code]string{
	language.BrazilianPortuguese: {
		CodeAuth:                "Ocorreu um erro ao criar o grupo",
		CodeValidation:          "Verifique os dados do grupo: informe um nome e ao menos dois participantes com nome e e-mail válidos, sem e-mails repetidos.",
		CodeGroupCreation:       "Ocorreu um erro ao criar o grupo. Por favor tente novamente ou se o erro persistir, entre em contato com o suporte.",
		CodeParticipantCreation: "Ocorreu um erro ao adicionar o(s) participante(s) ao grupo. Por favor tente novamente ou se o erro persistir, entre em contato com o suporte.",
		CodeAssignmentPersist:   "Ocorreu um erro ao sortear os participantes do grupo. Por favor tente novamente ou se o erro persistir, entre em contato com o suporte.",
		CodeNotification:        "Ocorreu um erro ao enviar os emails.",
		CodeLogin:               "Ocorreu um erro ao enviar o link de login. Por favor, entre em contato com o suporte!",
	},
	language.English: {
		CodeAuth:                "An error occurred while creating the group",
		CodeValidation:          "Check the group details: give it a name and at least two participants with a name and a valid, unique e-mail.",
		CodeGroupCreation:       "An error occurred while creating the group. Please try again or, if the error persists, contact support.",
		CodeParticipantCreation: "An error occurred while adding the participant(s) to the group. Please try again or, if the error persists, contact support.",
		CodeAssignmentPersist:   "An error occurred while drawing the group's participants. Please try again or, if the error persists, contact support.",
		CodeNotification:        "An error occurred while sending the e-mails.",
		CodeLogin:               "An error occurred while sending the login link. Please contact support!",
	},
}

// ResolveLocale picks the supported locale that best matches an
// Accept-Language header, falling back to fallback when nothing matches.
func ResolveLocale(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return base(fallback)
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return base(fallback)
	}
	return supported[idx]
}

// Message returns the user-facing text for code in locale.
func Message(locale language.Tag, code Code) string {
	catalog, ok := catalogs[base(locale)]
	if !ok {
		catalog = catalogs[language.BrazilianPortuguese]
	}
	if msg, ok := catalog[code]; ok {
		return msg
	}
	return string(code)
}

func base(tag language.Tag) language.Tag {
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.BrazilianPortuguese
	}
	return supported[idx]
}
