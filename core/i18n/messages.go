package i18n

type entry struct {
	key string
	en  string // defaults to key
	fa  string
}

var roleNames = []entry{
	{key: "system admin", en: "System admin", fa: "مدیر سامانه"},
	{key: "teacher", en: "Teacher", fa: "آموزگار"},
	{key: "student", en: "Student", fa: "دانش‌آموز"},
}

var messages = append([]entry{
	// shell
	{key: "Darsban smart world", fa: "دنیای هوشمند درسبان"},
	{key: "Smart school management system", fa: "سیستم مدیریت مدرسه هوشمند"},
	{key: "Welcome, %s", fa: "خوش آمدید، %s"},
	{key: "Sign out", fa: "خروج"},
	{key: "Demo version", fa: "نسخه دمو"},

	// login
	{key: "Sign in", fa: "ورود به سیستم"},
	{key: "Username", fa: "نام کاربری"},
	{key: "Password", fa: "رمز عبور"},
	{key: "Enter the panel", fa: "ورود به پنل"},
	{key: "Wrong username or password", fa: "نام کاربری یا رمز عبور اشتباه است"},
	{key: "Demo accounts", fa: "اطلاعات حساب‌های دمو"},

	// admin
	{key: "System admin panel", fa: "پنل مدیر سیستم"},
	{key: "Demo mode: all data is sample data", fa: "حالت دمو: تمام داده‌ها نمونه هستند"},
	{key: "Schools", fa: "مدیریت مدارس"},
	{key: "Users", fa: "مدیریت کاربران"},
	{key: "Reports", fa: "گزارش‌ها"},
	{key: "Sample schools", fa: "مدارس نمونه"},
	{key: "School name", fa: "نام مدرسه"},
	{key: "School code", fa: "کد مدرسه"},
	{key: "Number of students", fa: "تعداد دانش‌آموزان"},
	{key: "System users", fa: "کاربران سیستم"},
	{key: "Full name", fa: "نام کامل"},
	{key: "Role", fa: "نقش"},
	{key: "School", fa: "مدرسه"},
	{key: "Overall statistics", fa: "آمار کلی"},
	{key: "Number of schools", fa: "تعداد مدارس"},
	{key: "Number of users", fa: "تعداد کاربران"},
	{key: "Students on the roster", fa: "دانش‌آموزان فهرست کلاس"},
	{key: "Add user", fa: "افزودن کاربر"},
	{key: "Confirm password", fa: "تکرار رمز عبور"},
	{key: "Linked student", fa: "دانش‌آموز مرتبط"},
	{key: "Save", fa: "ذخیره"},
	{key: "User %s was created", fa: "کاربر %s ایجاد شد"},

	// teacher
	{key: "Teacher panel: %s", fa: "پنل آموزگار: %s"},
	{key: "Grade management", fa: "مدیریت نمرات"},
	{key: "Individual reports", fa: "گزارش‌های فردی"},
	{key: "Class statistics", fa: "آمار کلاسی"},
	{key: "Record a new grade", fa: "ثبت نمره جدید"},
	{key: "Student", fa: "دانش‌آموز"},
	{key: "Subject", fa: "درس"},
	{key: "Grade", fa: "نمره"},
	{key: "Date", fa: "تاریخ"},
	{key: "Record grade", fa: "ثبت نمره"},
	{key: "Grade %d recorded for %s in %s", fa: "نمره %d برای %s در درس %s ثبت شد"},
	{key: "Import grades from a spreadsheet", fa: "ورود نمرات از فایل اکسل"},
	{key: "Import", fa: "بارگذاری"},
	{key: "%d grades imported, %d rows skipped", fa: "%d نمره وارد شد، %d سطر نادیده گرفته شد"},
	{key: "Row %d: %s", fa: "سطر %d: %s"},
	{key: "Student reports", fa: "گزارش دانش‌آموزان"},
	{key: "Select student", fa: "انتخاب دانش‌آموز"},
	{key: "Show", fa: "نمایش"},
	{key: "Progress of %s", fa: "روند پیشرفت %s"},
	{key: "Whole class statistics", fa: "آمار کل کلاس"},
	{key: "Average grade", fa: "میانگین نمره"},
	{key: "Average grades per subject", fa: "میانگین نمرات در دروس مختلف"},

	// student
	{key: "Student panel: %s", fa: "پنل دانش‌آموز: %s"},
	{key: "Report card", fa: "کارنامه تحصیلی"},
	{key: "Overall average", fa: "میانگین کل نمرات"},
	{key: "Best subject", fa: "بهترین درس"},
	{key: "Grade distribution across subjects", fa: "توزیع نمرات در دروس"},
	{key: "Download report card (CSV)", fa: "دانلود کارنامه (CSV)"},
	{key: "Download report card (Excel)", fa: "دانلود کارنامه (Excel)"},
	{key: "No grades have been recorded for you yet.", fa: "هنوز نمره‌ای برای شما ثبت نشده است."},

	// fallbacks
	{key: "The %s panel is under development", fa: "پنل %s در حال توسعه است"},
	{key: "Permission denied", fa: "دسترسی غیرمجاز"},
	{key: "Page not found", fa: "صفحه یافت نشد"},
	{key: "Something went wrong", fa: "خطایی رخ داد"},
	{key: "Back to dashboard", fa: "بازگشت به داشبورد"},
}, roleNames...)
