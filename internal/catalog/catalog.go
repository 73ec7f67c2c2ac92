// Package catalog holds the static marketing content: product features and
// pricing plans.
package catalog

// Feature is one entry of the features grid.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Plan is one pricing plan.
type Plan struct {
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
	Popular     bool
}

var features = []Feature{
	{Icon: "message-square", Title: "WhatsApp Automation", Description: "Automatize conversas e respostas no WhatsApp com templates inteligentes"},
	{Icon: "bot", Title: "Central de Atendimento", Description: "Integração completa com Chatwoot para gerenciar todos os atendimentos"},
	{Icon: "zap", Title: "Fluxos N8N", Description: "Execute automações complexas conectando múltiplas ferramentas"},
	{Icon: "bar-chart", Title: "Analytics Avançado", Description: "Acompanhe métricas detalhadas de engajamento e conversões"},
	{Icon: "shield", Title: "Segurança Total", Description: "Dados protegidos com criptografia e compliance LGPD"},
	{Icon: "globe", Title: "Multi-canais", Description: "Conecte WhatsApp, Telegram, Facebook e outros canais"},
}

var plans = []Plan{
	{
		Name:        "Starter",
		Price:       "R$ 49",
		Period:      "/mês",
		Description: "Perfeito para pequenos negócios",
		Features: []string{
			"1 número WhatsApp",
			"500 mensagens/mês",
			"3 automações básicas",
			"Suporte por email",
		},
	},
	{
		Name:        "Professional",
		Price:       "R$ 149",
		Period:      "/mês",
		Description: "Ideal para empresas em crescimento",
		Features: []string{
			"3 números WhatsApp",
			"5.000 mensagens/mês",
			"Automações ilimitadas",
			"Integração Chatwoot",
			"Analytics avançado",
			"Suporte prioritário",
		},
		Popular: true,
	},
	{
		Name:        "Enterprise",
		Price:       "R$ 399",
		Period:      "/mês",
		Description: "Para empresas de grande porte",
		Features: []string{
			"Números ilimitados",
			"Mensagens ilimitadas",
			"White label",
			"API personalizada",
			"Suporte dedicado",
			"Treinamento incluído",
		},
	},
}

// Features returns a copy of the feature list.
func Features() []Feature {
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}

// Plans returns a deep copy of the pricing plans.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	for i, p := range plans {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// Stat is a dashboard counter card.
type Stat struct {
	Title   string
	Value   string
	Caption string
	Icon    string
}

// DashboardStats returns the counters shown on a fresh account.
func DashboardStats() []Stat {
	return []Stat{
		{Title: "Mensagens Enviadas", Value: "0", Caption: "últimos 30 dias", Icon: "message-square"},
		{Title: "Contatos Ativos", Value: "0", Caption: "total de contatos", Icon: "users"},
		{Title: "Automações", Value: "0", Caption: "ativas", Icon: "zap"},
		{Title: "Taxa de Conversão", Value: "0%", Caption: "últimos 30 dias", Icon: "bar-chart"},
	}
}

// DefaultPlanLabel is the badge shown for accounts without a paid plan.
const DefaultPlanLabel = "Plano Free"
