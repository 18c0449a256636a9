package repository

import (
	"context"
	"database/sql"
	"errors"
	"techStore/models"

	"go.uber.org/zap"
)

type ProductRepository interface {
	GetProductById(ctx context.Context, id int) (p models.Product, exists bool, err error)
	GetProducts(ctx context.Context) (prods []models.Product, err error)
	CreateProduct(ctx context.Context, p models.Product) (created models.Product, err error)
	DeleteProduct(ctx context.Context, id int) (deleted bool, err error)
	SeedProducts(ctx context.Context, prods []models.Product) (err error)
	// DecrementStock applies every decrement or none of them. A decrement that
	// would take stock below zero aborts the whole batch with a *models.StockError.
	DecrementStock(ctx context.Context, items []models.StockDecrement) (err error)
}

var productSchema = []string{
	`CREATE TABLE IF NOT EXISTS Products (
		Id INTEGER PRIMARY KEY,
		Name TEXT NOT NULL,
		Category TEXT NOT NULL,
		Price DOUBLE PRECISION NOT NULL CHECK (Price >= 0),
		Quantity INTEGER NOT NULL CHECK (Quantity >= 0),
		Image TEXT NOT NULL,
		Description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ProductSequence (
		Name TEXT PRIMARY KEY,
		LastId INTEGER NOT NULL
	)`,
	`INSERT INTO ProductSequence (Name, LastId) VALUES ('products', 0) ON CONFLICT (Name) DO NOTHING`,
}

// ProductRepo stores the catalog through database/sql. The queries stay within
// the dialect shared by postgres (lib/pq) and sqlite (go-sqlite3).
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepository(ctx context.Context, conn *sql.DB) (ProductRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.PingContext(ctx)
	if err != nil {
		return nil, err
	}
	for _, stmt := range productSchema {
		if _, err = conn.ExecContext(ctx, stmt); err != nil {
			return nil, err
		}
	}
	return &ProductRepo{
		db: conn,
	}, nil
}

func (p *ProductRepo) GetProductById(ctx context.Context, id int) (pModel models.Product, exists bool, err error) {
	row := p.db.QueryRowContext(ctx, "SELECT Id, Name, Category, Price, Quantity, Image, Description FROM Products WHERE Id = $1", id)
	err = row.Scan(&pModel.Id, &pModel.Name, &pModel.Category,
		&pModel.Price, &pModel.Quantity, &pModel.Image, &pModel.Description)

	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			zap.L().Error("GetProductById", zap.Int("product_id", id), zap.Error(err))
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (p *ProductRepo) GetProducts(ctx context.Context) (prods []models.Product, err error) {
	rows, e := p.db.QueryContext(ctx, "SELECT Id, Name, Category, Price, Quantity, Image, Description FROM Products ORDER BY Id")
	if e != nil {
		zap.L().Error("GetProducts[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()
	for rows.Next() {
		prod := models.Product{}
		err = rows.Scan(&prod.Id, &prod.Name, &prod.Category, &prod.Price, &prod.Quantity, &prod.Image, &prod.Description)
		if err != nil {
			zap.L().Error("GetProducts[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		prods = append(prods, prod)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("GetProducts[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (p *ProductRepo) CreateProduct(ctx context.Context, pModel models.Product) (created models.Product, err error) {
	tx, e := p.db.BeginTx(ctx, nil)
	if e != nil {
		zap.L().Error("CreateProduct[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, "UPDATE ProductSequence SET LastId = LastId + 1 WHERE Name = 'products' RETURNING LastId").Scan(&pModel.Id)
	if err != nil {
		zap.L().Error("CreateProduct[2]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO Products (Id, Name, Category, Price, Quantity, Image, Description) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		pModel.Id, pModel.Name, pModel.Category, pModel.Price, pModel.Quantity, pModel.Image, pModel.Description)
	if err != nil {
		zap.L().Error("CreateProduct[3]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	if err = tx.Commit(); err != nil {
		zap.L().Error("CreateProduct[4]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	created = pModel
	return
}

func (p *ProductRepo) DeleteProduct(ctx context.Context, id int) (deleted bool, err error) {
	res, e := p.db.ExecContext(ctx, "DELETE FROM Products WHERE Id = $1", id)
	if e != nil {
		zap.L().Error("DeleteProduct[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	n, e := res.RowsAffected()
	if e != nil {
		zap.L().Error("DeleteProduct[2]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	deleted = n > 0
	return
}

func (p *ProductRepo) SeedProducts(ctx context.Context, prods []models.Product) (err error) {
	tx, e := p.db.BeginTx(ctx, nil)
	if e != nil {
		zap.L().Error("SeedProducts[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer tx.Rollback()

	maxId := 0
	for _, v := range prods {
		_, err = tx.ExecContext(ctx, "INSERT INTO Products (Id, Name, Category, Price, Quantity, Image, Description) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (Id) DO NOTHING",
			v.Id, v.Name, v.Category, v.Price, v.Quantity, v.Image, v.Description)
		if err != nil {
			zap.L().Error("SeedProducts[2]", zap.Int("product_id", v.Id), zap.Error(err))
			err = models.ErrServerError
			return
		}
		if v.Id > maxId {
			maxId = v.Id
		}
	}
	_, err = tx.ExecContext(ctx, "UPDATE ProductSequence SET LastId = $1 WHERE Name = 'products' AND LastId < $2", maxId, maxId)
	if err != nil {
		zap.L().Error("SeedProducts[3]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	if err = tx.Commit(); err != nil {
		zap.L().Error("SeedProducts[4]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (p *ProductRepo) DecrementStock(ctx context.Context, items []models.StockDecrement) (err error) {
	tx, e := p.db.BeginTx(ctx, nil)
	if e != nil {
		zap.L().Error("DecrementStock[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer tx.Rollback()

	for _, v := range items {
		res, e := tx.ExecContext(ctx, "UPDATE Products SET Quantity = Quantity - $1 WHERE Id = $2 AND Quantity >= $3", v.Quantity, v.ProductId, v.Quantity)
		if e != nil {
			zap.L().Error("DecrementStock[2]", zap.Int("product_id", v.ProductId), zap.Error(e))
			err = models.ErrServerError
			return
		}
		n, e := res.RowsAffected()
		if e != nil {
			zap.L().Error("DecrementStock[3]", zap.Error(e))
			err = models.ErrServerError
			return
		}
		if n == 0 {
			stockErr := &models.StockError{ProductId: v.ProductId, Requested: v.Quantity}
			row := tx.QueryRowContext(ctx, "SELECT Name, Quantity FROM Products WHERE Id = $1", v.ProductId)
			if e := row.Scan(&stockErr.Name, &stockErr.Available); e != nil && e != sql.ErrNoRows {
				zap.L().Error("DecrementStock[4]", zap.Error(e))
				err = models.ErrServerError
				return
			}
			err = stockErr
			return
		}
	}
	if err = tx.Commit(); err != nil {
		zap.L().Error("DecrementStock[5]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}
