package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/domain"

	"github.com/joho/godotenv"
)

// A small local cart shell: add, set, remove, clear and show lines in
// the cart persisted under the configured directory. Useful for poking
// at cart persistence without a storefront client.
func main() {
	var (
		add    = flag.String("add", "", "add a line: productID:name:unitPriceCents[:quantity]")
		set    = flag.String("set", "", "set a line quantity: productID:quantity")
		remove = flag.String("remove", "", "remove the line for a product ID")
		clear  = flag.Bool("clear", false, "empty the cart")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[cart] ", 0)

	_ = godotenv.Load()
	cfg := config.FromEnv()

	storage, err := cart.NewFileStorage(cfg.CartDir)
	if err != nil {
		logger.Fatalf("open cart storage: %v", err)
	}
	store := cart.NewStore(storage)

	switch {
	case *add != "":
		line, qty, err := parseAdd(*add)
		if err != nil {
			logger.Fatalf("parse -add: %v", err)
		}
		if err := store.AddItem(line, qty); err != nil {
			logger.Fatalf("add item: %v", err)
		}
	case *set != "":
		id, qty, err := parseSet(*set)
		if err != nil {
			logger.Fatalf("parse -set: %v", err)
		}
		if err := store.UpdateQuantity(id, qty); err != nil {
			logger.Fatalf("update quantity: %v", err)
		}
	case *remove != "":
		if err := store.RemoveItem(*remove); err != nil {
			logger.Fatalf("remove item: %v", err)
		}
	case *clear:
		if err := store.Clear(); err != nil {
			logger.Fatalf("clear cart: %v", err)
		}
	}

	for _, line := range store.Items() {
		logger.Printf("%s x%d  %s  %d cents", line.ProductID, line.Quantity, line.Name, line.UnitPriceCents*int64(line.Quantity))
	}
	logger.Printf("items=%d total=%d cents", store.TotalItems(), store.TotalCents())
}

func parseAdd(arg string) (domain.CartLine, int, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 3 {
		return domain.CartLine{}, 0, fmt.Errorf("want productID:name:unitPriceCents[:quantity], got %q", arg)
	}
	price, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return domain.CartLine{}, 0, fmt.Errorf("unit price: %w", err)
	}
	qty := 1
	if len(parts) > 3 {
		qty, err = strconv.Atoi(parts[3])
		if err != nil {
			return domain.CartLine{}, 0, fmt.Errorf("quantity: %w", err)
		}
	}
	return domain.CartLine{ProductID: parts[0], Name: parts[1], UnitPriceCents: price}, qty, nil
}

func parseSet(arg string) (string, int, error) {
	id, qtyStr, ok := strings.Cut(arg, ":")
	if !ok {
		return "", 0, fmt.Errorf("want productID:quantity, got %q", arg)
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return "", 0, fmt.Errorf("quantity: %w", err)
	}
	return id, qty, nil
}
