package workflow

import "errors"

var opMessages = map[Op]string{
	OpSignIn:         "Erro ao tentar fazer login. Tente novamente.",
	OpOpenTable:      "Não foi possível abrir o pedido.",
	OpLoadCategories: "Erro ao buscar categorias.",
	OpLoadProducts:   "Erro ao buscar produtos.",
	OpAddItem:        "Erro ao adicionar produto.",
	OpRemoveItem:     "Erro ao deletar item.",
	OpFinalize:       "Erro ao finalizar, tente mais tarde.",
	OpDiscard:        "Erro ao fechar o pedido.",
	OpListOrders:     "Erro ao buscar pedidos.",
	OpOrderDetail:    "Erro ao buscar detalhes do pedido.",
	OpUpdateTable:    "Erro ao atualizar mesa.",
}

var exactMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidCredentials, "Email ou senha incorretos."},
	{ErrSessionExpired, "Sessão expirada. Faça login novamente."},
	{ErrMissingCredentials, "Preencha email e senha."},
	{ErrInvalidTable, "Digite um número de mesa válido."},
	{ErrInvalidAmount, "Digite uma quantidade válida."},
	{ErrNoProduct, "Selecione um produto."},
	{ErrOrderEmpty, "Adicione itens antes de finalizar o pedido."},
	{ErrOrderNotEmpty, "Remova os itens antes de excluir o pedido."},
	{ErrPendingItems, "Aguarde a atualização dos itens."},
	{ErrStorage, "Erro ao acessar os dados do aparelho."},
	{ErrAlreadyAuthenticated, "Você já está logado."},
}

// Message возвращает короткое сообщение для сотрудника, без технических подробностей.
func Message(err error) string {
	if err == nil {
		return ""
	}

	for _, m := range exactMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	switch {
	case errors.Is(err, ErrAuth):
		return "Você precisa estar logado."
	case errors.Is(err, ErrTransport):
		return "Erro de conexão. Verifique sua internet."
	case errors.Is(err, ErrValidation):
		return "Dados inválidos."
	case errors.Is(err, ErrInvalidState):
		return "Operação indisponível no momento."
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		if msg, ok := opMessages[opErr.Op]; ok {
			return msg
		}
	}

	return "Algo deu errado. Tente novamente."
}
