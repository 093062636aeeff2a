package memory

import "github.com/superpos/terminal-api/internal/domain/entity"

// SeedProducts is the catalog the terminal boots with.
func SeedProducts() []entity.Product {
	return []entity.Product{
		{ID: "1", Name: "Arroz Integral 1kg", PriceCents: 750, Category: "Grãos", Barcode: "7891000001", ImageURL: "https://picsum.photos/seed/rice/200/200", Stock: 50},
		{ID: "2", Name: "Feijão Carioca 1kg", PriceCents: 920, Category: "Grãos", Barcode: "7891000002", ImageURL: "https://picsum.photos/seed/beans/200/200", Stock: 35},
		{ID: "3", Name: "Azeite de Oliva 500ml", PriceCents: 3490, Category: "Óleos", Barcode: "7891000003", ImageURL: "https://picsum.photos/seed/olive/200/200", Stock: 20},
		{ID: "4", Name: "Café Torrado 500g", PriceCents: 1800, Category: "Bebidas", Barcode: "7891000004", ImageURL: "https://picsum.photos/seed/coffee/200/200", Stock: 100},
		{ID: "5", Name: "Leite Integral 1L", PriceCents: 480, Category: "Laticínios", Barcode: "7891000005", ImageURL: "https://picsum.photos/seed/milk/200/200", Stock: 120},
		{ID: "6", Name: "Pão de Forma 500g", PriceCents: 650, Category: "Padaria", Barcode: "7891000006", ImageURL: "https://picsum.photos/seed/bread/200/200", Stock: 15},
		{ID: "7", Name: "Sabão em Pó 1kg", PriceCents: 1450, Category: "Limpeza", Barcode: "7891000007", ImageURL: "https://picsum.photos/seed/soap/200/200", Stock: 40},
		{ID: "8", Name: "Papel Higiênico 12un", PriceCents: 2200, Category: "Higiene", Barcode: "7891000008", ImageURL: "https://picsum.photos/seed/paper/200/200", Stock: 30},
		{ID: "9", Name: "Chocolate 100g", PriceCents: 590, Category: "Doces", Barcode: "7891000009", ImageURL: "https://picsum.photos/seed/choco/200/200", Stock: 60},
		{ID: "10", Name: "Detergente 500ml", PriceCents: 230, Category: "Limpeza", Barcode: "7891000010", ImageURL: "https://picsum.photos/seed/detergent/200/200", Stock: 80},
	}
}

// SeedClients is the initial client directory.
func SeedClients() []entity.Client {
	return []entity.Client{
		{ID: "c1", Name: "Mariana Oliveira", Document: "123.456.789-00", Email: "mariana@example.com", Phone: "11999998888", Address: "Av. Paulista, 1000, SP"},
		{ID: "c2", Name: "Mercado do Bairro LTDA", Document: "12.345.678/0001-90", Email: "contato@mercadobairro.com", Phone: "1133334444", Address: "Rua das Flores, 123, RJ"},
	}
}

// CardTerminals is the fixed list of card machines available to this till.
func CardTerminals() []entity.CardTerminal {
	return []entity.CardTerminal{
		{ID: "m1", Name: "Terminal Stone S920 - Caixa 01", Status: "online"},
		{ID: "m2", Name: "Moderninha Pro 2 - Balcão", Status: "online"},
		{ID: "m3", Name: "Cielo LIO - Principal", Status: "online"},
		{ID: "m4", Name: "Rede iWl250 - Reserva", Status: "online"},
	}
}
