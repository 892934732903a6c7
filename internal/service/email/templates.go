package email

const pageHead = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #059669, #047857); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .info-box { background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #e5e7eb; }
        .info-row:last-child { border-bottom: none; }
        .info-label { color: #6b7280; }
        .info-value { font-weight: 600; }
        .button { display: inline-block; background: #059669; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>EV Recharge</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Plan the trip, reserve the charger</p>
    </div>
    <div class="content">
`

const pageFoot = `
    </div>
    <div class="footer">
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const reservationCreatedTemplate = pageHead + `
        <h2>Charging Slot Reserved</h2>
        <p>Hello {{.UserName}},</p>
        <p>A port is being held for you at <strong>{{.StationName}}</strong>.</p>

        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Reservation</span>
                <span class="info-value">{{.ReservationID}}</span>
            </div>
            {{if .Address}}<div class="info-row">
                <span class="info-label">Address</span>
                <span class="info-value">{{.Address}}</span>
            </div>{{end}}
            <div class="info-row">
                <span class="info-label">From</span>
                <span class="info-value">{{.StartTime}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Until</span>
                <span class="info-value">{{.EndTime}} ({{.Duration}} min)</span>
            </div>
        </div>

        <p>Arrive within the grace period or the port is released to other drivers.</p>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/reservations/{{.ReservationID}}" class="button">View Reservation</a>
        </p>
` + pageFoot

const reservationCancelledTemplate = pageHead + `
        <h2>Reservation Cancelled</h2>
        <p>Hello {{.UserName}},</p>
        <p>Your reservation <strong>{{.ReservationID}}</strong> for {{.StartTime}} was cancelled.</p>
        {{if .Reason}}<div class="info-box">
            <div class="info-row">
                <span class="info-label">Reason</span>
                <span class="info-value">{{.Reason}}</span>
            </div>
        </div>{{end}}

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/stations" class="button">Find Another Station</a>
        </p>
` + pageFoot
