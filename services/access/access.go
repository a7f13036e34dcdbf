// Package access decides who may see and mutate teams and boards, and owns
// the membership mutations those decisions protect. A missing entity is
// reported as not found; an existing but inaccessible one as forbidden.
package access

import (
	"errors"

	"gorm.io/gorm"

	"kanban/apperr"
	"kanban/model"
)

// Team loads a team by id.
func Team(db *gorm.DB, teamID int) (*model.Team, error) {
	var team model.Team
	if err := db.Where("team_id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("team %d", teamID)
		}
		return nil, err
	}
	return &team, nil
}

// Board loads a board by id.
func Board(db *gorm.DB, boardID int) (*model.Board, error) {
	var board model.Board
	if err := db.Where("board_id = ?", boardID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("board %d", boardID)
		}
		return nil, err
	}
	return &board, nil
}

// IsTeamMember reports whether the user has a membership row on the team.
func IsTeamMember(db *gorm.DB, userID, teamID int) (bool, error) {
	var count int64
	err := db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsTeamAdmin reports whether the user holds an admin membership on the team.
func IsTeamAdmin(db *gorm.DB, userID, teamID int) (bool, error) {
	var count int64
	err := db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role = ?", teamID, userID, model.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

// IsBoardMember reports whether the user has a membership row on the board.
func IsBoardMember(db *gorm.DB, userID, boardID int) (bool, error) {
	var count int64
	err := db.Model(&model.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsBoardAdmin reports whether the user holds an admin membership on the board.
func IsBoardAdmin(db *gorm.DB, userID, boardID int) (bool, error) {
	var count int64
	err := db.Model(&model.BoardMember{}).
		Where("board_id = ? AND user_id = ? AND role = ?", boardID, userID, model.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}

// CanAccessBoard implements the board visibility rule: public boards are
// visible to everyone, private ones to board members and to members of the
// board's team.
func CanAccessBoard(db *gorm.DB, userID int, board *model.Board) (bool, error) {
	if board.IsPublic {
		return true, nil
	}
	ok, err := IsBoardMember(db, userID, board.BoardID)
	if err != nil || ok {
		return ok, err
	}
	return IsTeamMember(db, userID, board.TeamID)
}

// RequireBoard loads a board and checks the caller may access it. Every
// task-scoped operation goes through here.
func RequireBoard(db *gorm.DB, userID, boardID int) (*model.Board, error) {
	board, err := Board(db, boardID)
	if err != nil {
		return nil, err
	}
	ok, err := CanAccessBoard(db, userID, board)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("board %d", boardID)
	}
	return board, nil
}

// AddTeamMember inserts a membership row. The caller is responsible for the
// admin check; this validates the role, the target user and duplicates.
func AddTeamMember(db *gorm.DB, teamID, userID int, role string) (*model.TeamMember, error) {
	if !model.ValidRole(role) {
		return nil, apperr.InvalidInput("role %q", role)
	}
	var user model.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d", userID)
		}
		return nil, err
	}
	existing, err := IsTeamMember(db, userID, teamID)
	if err != nil {
		return nil, err
	}
	if existing {
		return nil, apperr.Conflict("user %d is already a team member", userID)
	}
	member := model.TeamMember{TeamID: teamID, UserID: userID, Role: role}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveTeamMember deletes a membership row. Removing the sole remaining
// admin is rejected: the admin count is taken first and compared to one,
// regardless of who else is being removed. The count and the delete share
// one transaction so concurrent removals cannot each pass the check.
func RemoveTeamMember(db *gorm.DB, teamID, userID int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var member model.TeamMember
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("membership of user %d in team %d", userID, teamID)
			}
			return err
		}
		if member.Role == model.RoleAdmin {
			var admins int64
			if err := tx.Model(&model.TeamMember{}).
				Where("team_id = ? AND role = ?", teamID, model.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.Invariant("cannot remove the last admin of team %d", teamID)
			}
		}
		return tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&model.TeamMember{}).Error
	})
}

// AddBoardMember inserts a board membership row. Board membership is an
// escalation of team membership: the target must already belong to the
// board's team.
func AddBoardMember(db *gorm.DB, board *model.Board, userID int, role string) (*model.BoardMember, error) {
	if !model.ValidRole(role) {
		return nil, apperr.InvalidInput("role %q", role)
	}
	onTeam, err := IsTeamMember(db, userID, board.TeamID)
	if err != nil {
		return nil, err
	}
	if !onTeam {
		return nil, apperr.InvalidInput("user %d must be a team member first", userID)
	}
	existing, err := IsBoardMember(db, userID, board.BoardID)
	if err != nil {
		return nil, err
	}
	if existing {
		return nil, apperr.Conflict("user %d is already a board member", userID)
	}
	member := model.BoardMember{BoardID: board.BoardID, UserID: userID, Role: role}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveBoardMember deletes a board membership row with the same last-admin
// guard as teams, count and delete in one transaction.
func RemoveBoardMember(db *gorm.DB, boardID, userID int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var member model.BoardMember
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("membership of user %d on board %d", userID, boardID)
			}
			return err
		}
		if member.Role == model.RoleAdmin {
			var admins int64
			if err := tx.Model(&model.BoardMember{}).
				Where("board_id = ? AND role = ?", boardID, model.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return apperr.Invariant("cannot remove the last admin of board %d", boardID)
			}
		}
		return tx.Where("board_id = ? AND user_id = ?", boardID, userID).
			Delete(&model.BoardMember{}).Error
	})
}
