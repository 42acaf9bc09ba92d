package menu

// Dados fixos do estabelecimento. A tabela menu_config não modela nome,
// slogan nem horário de funcionamento; os valores abaixo são o placeholder
// documentado, não um bug a corrigir.
const (
	RestaurantName    = "Noir Menu"
	RestaurantTagline = "Seu cardápio digital"

	// Número placeholder usado enquanto o admin não configura o WhatsApp.
	PlaceholderWhatsApp = "5500000000000"

	estimatedDeliveryTime = "30-50 min"
)

var defaultSchedule = Schedule{
	IsOpen:        true,
	OpenTime:      "18:00",
	CloseTime:     "23:00",
	WorkingDays:   "Todos os dias",
	ClosedMessage: "Estamos fechados no momento.",
}

// paymentMethods é o conjunto fixo de formas de pagamento; não é
// persistido em lugar nenhum.
var paymentMethods = []PaymentMethod{
	{ID: "dinheiro", Name: "Dinheiro", Icon: "banknote"},
	{ID: "pix", Name: "Pix", Icon: "qr-code"},
	{ID: "cartao", Name: "Cartão", Icon: "credit-card"},
}

// PaymentMethods devolve o conjunto fixo de formas de pagamento.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// Conjunto estático usado quando o banco está vazio ou inalcançável:
// o cardápio prefere dados remotos quando existem, senão cai aqui.
var (
	fallbackCategories = []CategoryView{
		{ID: "all", Name: "Todos"},
		{ID: "pizzas", Name: "Pizzas"},
		{ID: "lanches", Name: "Lanches"},
		{ID: "bebidas", Name: "Bebidas"},
		{ID: "sobremesas", Name: "Sobremesas"},
	}

	fallbackProducts = []ProductView{
		{ID: "p-1", Name: "Pizza Margherita", Description: "Molho de tomate, muçarela e manjericão", Price: 39.90, Category: "pizzas"},
		{ID: "p-2", Name: "Pizza Calabresa", Description: "Calabresa fatiada com cebola", Price: 42.90, Category: "pizzas"},
		{ID: "p-3", Name: "X-Burger", Description: "Hambúrguer artesanal com queijo", Price: 24.90, Category: "lanches"},
		{ID: "p-4", Name: "Coca-Cola Lata", Description: "350ml gelada", Price: 6.00, Category: "bebidas"},
		{ID: "p-5", Name: "Pudim", Description: "Pudim de leite condensado", Price: 12.00, Category: "sobremesas"},
	}

	fallbackNeighborhoods = []Neighborhood{
		{ID: "n-0", Name: "Centro", DeliveryFee: 0},
		{ID: "n-1", Name: "Jardim América", DeliveryFee: 0},
		{ID: "n-2", Name: "Vila Nova", DeliveryFee: 0},
	}

	fallbackDeliveryConfig = DeliveryConfig{
		MinimumOrder:        0,
		MinimumOrderEnabled: false,
		EstimatedTime:       estimatedDeliveryTime,
	}
)

// DefaultView é o cardápio inteiramente estático, usado quando nenhuma
// leitura do banco foi concluída com sucesso.
func DefaultView() *View {
	return &View{
		RestaurantConfig: RestaurantConfig{
			Name:           RestaurantName,
			Tagline:        RestaurantTagline,
			WhatsAppNumber: PlaceholderWhatsApp,
			Schedule:       defaultSchedule,
		},
		DeliveryConfig: fallbackDeliveryConfig,
		Categories:     append([]CategoryView(nil), fallbackCategories...),
		Products:       append([]ProductView(nil), fallbackProducts...),
		Neighborhoods:  append([]Neighborhood(nil), fallbackNeighborhoods...),
		PaymentMethods: PaymentMethods(),
	}
}
