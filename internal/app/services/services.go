package services

// Services defined in this package:
// - AuthService: sign-in, sign-out, password updates and invite confirmation
// - InviteService: admin user invitation over the elevated store role
// - StudentService: admin-side student listing, editing and deletion
// - ApplicationService: student-owned application CRUD
// - AttachmentService: document upload/delete with readiness flag upkeep
// - StatsService: cached admin dashboard aggregates
