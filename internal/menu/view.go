// Package menu agrega categorias, produtos disponíveis e a configuração
// do cardápio em um único view-model pronto para o cardápio público,
// refazendo a leitura completa a cada notificação de mudança no banco.
package menu

// CategoryView é uma categoria já pronta para o filtro do cardápio.
type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductView é um produto do cardápio público. Image é omitida quando
// o produto não tem foto cadastrada.
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
}

type Schedule struct {
	IsOpen        bool   `json:"isOpen"`
	OpenTime      string `json:"openTime"`
	CloseTime     string `json:"closeTime"`
	WorkingDays   string `json:"workingDays"`
	ClosedMessage string `json:"closedMessage"`
}

type RestaurantConfig struct {
	Name           string   `json:"name"`
	Tagline        string   `json:"tagline"`
	WhatsAppNumber string   `json:"whatsappNumber"`
	Schedule       Schedule `json:"schedule"`
}

type DeliveryConfig struct {
	MinimumOrder        float64 `json:"minimumOrder"`
	MinimumOrderEnabled bool    `json:"minimumOrderEnabled"`
	EstimatedTime       string  `json:"estimatedTime"`
}

// Neighborhood é derivado da lista de nomes da configuração. A taxa de
// entrega é sempre zero: a tabela atual não guarda taxas por bairro.
type Neighborhood struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DeliveryFee float64 `json:"deliveryFee"`
}

type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// View é o cardápio completo entregue à página pública.
type View struct {
	RestaurantConfig RestaurantConfig `json:"restaurantConfig"`
	DeliveryConfig   DeliveryConfig   `json:"deliveryConfig"`
	Categories       []CategoryView   `json:"categories"`
	Products         []ProductView    `json:"products"`
	Neighborhoods    []Neighborhood   `json:"neighborhoods"`
	PaymentMethods   []PaymentMethod  `json:"paymentMethods"`
}
