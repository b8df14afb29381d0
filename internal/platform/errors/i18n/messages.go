package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeActiveGameExists     = "ACTIVE_GAME_EXISTS"
	CodeOptionNotOnPage      = "OPTION_NOT_ON_PAGE"
	CodeCharacterNotOwned    = "CHARACTER_NOT_OWNED"
	CodeCharacterDead        = "CHARACTER_DEAD"
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeAdminRequired        = "ADMIN_REQUIRED"
	CodeStoryDocumentInvalid = "STORY_DOCUMENT_INVALID"
)

var enUSMessages = map[Code]string{
	CodeNotFound:             "{{.Entity}} not found",
	CodeActiveGameExists:     "This character already has a game in progress",
	CodeOptionNotOnPage:      "That choice is not available on the current page",
	CodeCharacterNotOwned:    "You do not own this character",
	CodeCharacterDead:        "This character is dead",
	CodeInvalidArgument:      "Invalid request{{if .Field}}: {{.Field}}{{end}}",
	CodeUnauthenticated:      "Sign in to play",
	CodeAdminRequired:        "Administrator access is required",
	CodeStoryDocumentInvalid: "Story document is invalid",
}

var ptBRMessages = map[Code]string{
	CodeNotFound:             "{{.Entity}} não encontrado",
	CodeActiveGameExists:     "Este personagem já tem um jogo em andamento",
	CodeOptionNotOnPage:      "Essa escolha não está disponível na página atual",
	CodeCharacterNotOwned:    "Você não é dono deste personagem",
	CodeCharacterDead:        "Este personagem está morto",
	CodeInvalidArgument:      "Requisição inválida{{if .Field}}: {{.Field}}{{end}}",
	CodeUnauthenticated:      "Entre para jogar",
	CodeAdminRequired:        "Acesso de administrador é necessário",
	CodeStoryDocumentInvalid: "Documento de história inválido",
}
