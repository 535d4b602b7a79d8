package models

var RestaurantCategories = []string{
	"Comida Rápida",
	"Casual Dining",
	"Fine Dining",
	"Cafetería",
	"Bar y Grill",
	"Pizzería",
	"Marisquería",
	"Buffet",
	"Restaurante Temático",
	"Food Truck",
	"Vegetariano/Vegano",
	"Asador/Parrilla",
	"Panadería y Repostería",
	"Cocina Internacional",
	"Cocina Regional",
}

var DishCategories = []string{
	"Entradas",
	"Sopas y Cremas",
	"Ensaladas",
	"Platos Fuertes",
	"Guarniciones",
	"Bebidas",
	"Postres",
	"Snacks",
	"Sándwiches y Hamburguesas",
	"Pastas",
	"Pizzas",
	"Tacos y Antojitos",
	"Parrilladas y Asados",
	"Mariscos",
	"Comida Saludable",
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IsRestaurantCategory(v string) bool { return contains(RestaurantCategories, v) }

func IsDishCategory(v string) bool { return contains(DishCategories, v) }
