package postgres

import (
	"context"

	"github.com/frahmantamala/asset-custody/internal/report"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the dashboard aggregates as plain SQL. Queries are written with ?
// placeholders and rebound for the connected driver.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.ReadModel {
	return &ReportRepository{db: db}
}

const totalsQuery = `
SELECT
  (SELECT COUNT(*) FROM personnel WHERE is_active = ?)          AS active_personnel,
  (SELECT COUNT(*) FROM items)                                  AS total_items,
  (SELECT COUNT(*) FROM assignments WHERE status = 'active')    AS active_assignments,
  (SELECT COUNT(*) FROM items WHERE status = 'available')       AS available_items
`

func (r *ReportRepository) Totals(ctx context.Context) (*report.Totals, error) {
	var t report.Totals
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(totalsQuery), true); err != nil {
		return nil, err
	}
	return &t, nil
}

const recentQuery = `
SELECT
  a.id,
  a.assignment_number,
  a.status,
  a.assigned_date,
  a.returned_date,
  a.created_at,
  a.personnel_id,
  COALESCE(p.name, '')            AS personnel_name,
  COALESCE(p.employee_number, '') AS employee_number,
  a.item_id,
  COALESCE(i.name, '')            AS item_name,
  a.assigned_by_user_id,
  COALESCE(u.username, '')        AS assigned_by_username
FROM assignments a
LEFT JOIN personnel p ON p.id = a.personnel_id
LEFT JOIN items i     ON i.id = a.item_id
LEFT JOIN users u     ON u.id = a.assigned_by_user_id
ORDER BY a.created_at DESC, a.id DESC
LIMIT ?
`

func (r *ReportRepository) RecentAssignments(ctx context.Context, limit int) ([]*report.RecentAssignment, error) {
	rows := []*report.RecentAssignment{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(recentQuery), limit); err != nil {
		return nil, err
	}
	return rows, nil
}

const categoryQuery = `
SELECT
  c.id   AS category_id,
  c.name AS category_name,
  COUNT(i.id) AS total,
  CAST(COALESCE(SUM(CASE WHEN i.status = 'available' THEN 1 ELSE 0 END), 0) AS INTEGER) AS available,
  CAST(COALESCE(SUM(CASE WHEN i.status = 'assigned'  THEN 1 ELSE 0 END), 0) AS INTEGER) AS assigned
FROM categories c
LEFT JOIN items i ON i.category_id = c.id
GROUP BY c.id, c.name
ORDER BY c.name ASC
`

func (r *ReportRepository) CategoryDistribution(ctx context.Context) ([]*report.CategoryDistribution, error) {
	rows := []*report.CategoryDistribution{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(categoryQuery)); err != nil {
		return nil, err
	}
	return rows, nil
}

const departmentQuery = `
SELECT
  d.id   AS department_id,
  d.name AS department_name,
  (SELECT COUNT(*) FROM personnel p
    WHERE p.department_id = d.id AND p.is_active = ?) AS active_personnel,
  (SELECT COUNT(*) FROM assignments a
    JOIN personnel p ON p.id = a.personnel_id
    WHERE p.department_id = d.id AND p.is_active = ? AND a.status = 'active') AS active_assignments
FROM departments d
ORDER BY d.name ASC
`

func (r *ReportRepository) DepartmentDistribution(ctx context.Context) ([]*report.DepartmentDistribution, error) {
	rows := []*report.DepartmentDistribution{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(departmentQuery), true, true); err != nil {
		return nil, err
	}
	return rows, nil
}
